package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
)

const (
	redisAccountPrefix = "account:username:"
	redisEmailPrefix   = "account:email:"

	redisMaxTxAttempts = 3
)

// Redis is a Store keeping one JSON document per username plus an email index.
type Redis struct {
	tracer
	client *redis.Client
}

type redisAccount struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	Firstname    string    `json:"firstname"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	PhoneNumber  string    `json:"phone_number"`
	Address      string    `json:"address"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewRedis(client *redis.Client, ins instrument.Instrumentation) *Redis {
	return &Redis{tracer: tracer{ins: ins}, client: client}
}

func (s *Redis) FindByUsername(ctx context.Context, username string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "FindByUsername")
	defer func() { s.endSpan(span, err) }()

	raw, err := s.client.Get(ctx, redisAccountPrefix+username).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return decodeRedisAccount(raw)
}

// Insert claims the username key then the email key; losing the email claim
// rolls the username back.
func (s *Redis) Insert(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "Insert")
	defer func() { s.endSpan(span, err) }()

	raw, err := json.Marshal(toRedisAccount(acc))
	if err != nil {
		return err
	}

	userKey := redisAccountPrefix + acc.Username
	ok, err := s.client.SetNX(ctx, userKey, raw, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return goerror.ErrConflict
	}

	ok, err = s.client.SetNX(ctx, redisEmailPrefix+acc.Email, acc.Username, 0).Result()
	if err == nil && ok {
		return nil
	}

	if delErr := s.client.Del(ctx, userKey).Err(); delErr != nil {
		err = errors.Join(err, delErr)
	}
	if err != nil {
		return err
	}
	return goerror.ErrConflict
}

func (s *Redis) MarkVerified(ctx context.Context, username string, at time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkVerified")
	defer func() { s.endSpan(span, err) }()

	key := redisAccountPrefix + username
	flipped := false

	txf := func(tx *redis.Tx) error {
		flipped = false

		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		acc, err := decodeRedisAccount(raw)
		if err != nil {
			return err
		}
		if acc.IsVerified {
			return nil
		}

		acc.IsVerified = true
		acc.UpdatedAt = at
		updated, err := json.Marshal(toRedisAccount(*acc))
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, redis.KeepTTL)
			return nil
		})
		if err == nil {
			flipped = true
		}
		return err
	}

	for range redisMaxTxAttempts {
		err = s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return flipped, err
	}

	// every attempt raced another writer, which can only be a concurrent verification
	return false, nil
}

func toRedisAccount(acc entity.Account) redisAccount {
	return redisAccount{
		ID:           acc.ID,
		Username:     acc.Username,
		Email:        acc.Email,
		PasswordHash: acc.PasswordHash,
		Name:         acc.Name,
		Firstname:    acc.Firstname,
		DateOfBirth:  acc.DateOfBirth,
		PhoneNumber:  acc.PhoneNumber,
		Address:      acc.Address,
		IsVerified:   acc.IsVerified,
		CreatedAt:    acc.CreatedAt,
		UpdatedAt:    acc.UpdatedAt,
	}
}

func decodeRedisAccount(raw []byte) (*entity.Account, error) {
	var r redisAccount
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}

	return &entity.Account{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		Firstname:    r.Firstname,
		DateOfBirth:  r.DateOfBirth,
		PhoneNumber:  r.PhoneNumber,
		Address:      r.Address,
		IsVerified:   r.IsVerified,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}
