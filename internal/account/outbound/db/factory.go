package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

var (
	// ErrUnknownDriver indicates an unsupported store driver.
	ErrUnknownDriver = errors.New("account db: unknown driver")
	// ErrMissingConn indicates the selected driver has no connection.
	ErrMissingConn = errors.New("account db: connection for driver is missing")
)

// Conns holds the connections a driver may need. Only the selected one must be set.
type Conns struct {
	Postgres *pgxpool.Pool
	SQLite   *sql.DB
	Redis    *redis.Client
}

// NewFromDriver builds the Store for driver.
func NewFromDriver(driver string, conns Conns, ins instrument.Instrumentation) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverPostgres:
		if conns.Postgres == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingConn, driver)
		}
		return NewPostgres(conns.Postgres, ins), nil
	case DriverSQLite:
		if conns.SQLite == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingConn, driver)
		}
		return NewSQLite(conns.SQLite, ins), nil
	case DriverRedis:
		if conns.Redis == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingConn, driver)
		}
		return NewRedis(conns.Redis, ins), nil
	case DriverMemory:
		return NewMemory(ins), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
