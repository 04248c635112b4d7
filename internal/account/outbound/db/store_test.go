package db

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nextID atomic.Int64

func sampleAccount(username, email string) entity.Account {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return entity.Account{
		ID:           nextID.Add(1),
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$04$abcdefghijklmnopqrstuu",
		Name:         "Doe",
		Firstname:    "Alice",
		DateOfBirth:  time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC),
		PhoneNumber:  "+237650000000",
		Address:      "Douala",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// testStore runs the behavior every Store driver must share.
func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("find missing", func(t *testing.T) {
		_, err := store.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("insert and find", func(t *testing.T) {
		acc := sampleAccount("alice", "alice@example.com")
		require.NoError(t, store.Insert(ctx, acc))

		got, err := store.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)
		assert.Equal(t, acc.Email, got.Email)
		assert.Equal(t, acc.PasswordHash, got.PasswordHash)
		assert.Equal(t, acc.DateOfBirth.Format("2006-01-02"), got.DateOfBirth.UTC().Format("2006-01-02"))
		assert.False(t, got.IsVerified)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := store.Insert(ctx, sampleAccount("alice", "other@example.com"))
		assert.ErrorIs(t, err, goerror.ErrConflict)

		got, err := store.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := store.Insert(ctx, sampleAccount("alice2", "alice@example.com"))
		assert.ErrorIs(t, err, goerror.ErrConflict)

		_, err = store.FindByUsername(ctx, "alice2")
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("mark verified once", func(t *testing.T) {
		at := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

		flipped, err := store.MarkVerified(ctx, "alice", at)
		require.NoError(t, err)
		assert.True(t, flipped)

		flipped, err = store.MarkVerified(ctx, "alice", at.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, flipped)

		got, err := store.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, got.IsVerified)
		assert.True(t, at.Equal(got.UpdatedAt))
	})

	t.Run("mark verified missing", func(t *testing.T) {
		flipped, err := store.MarkVerified(ctx, "nobody", time.Now())
		require.NoError(t, err)
		assert.False(t, flipped)
	})

	t.Run("concurrent registration", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Go(func() {
				errs[i] = store.Insert(ctx, sampleAccount("racer", "racer@example.com"))
			})
		}
		wg.Wait()

		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, goerror.ErrConflict)
		}
		assert.Equal(t, 1, ok)
	})
}
