package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/stretchr/testify/require"
)

func TestSQLite(t *testing.T) {
	t.Parallel()

	dsn := filepath.Join(t.TempDir(), "accounts.db") + "?_busy_timeout=5000&_foreign_keys=ON"
	conn, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, Migrate(context.Background(), conn, DriverSQLite))
	// a second run is a no-op
	require.NoError(t, Migrate(context.Background(), conn, DriverSQLite))

	testStore(t, NewSQLite(conn, instrument.NewNoop()))
}
