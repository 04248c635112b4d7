package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
)

const (
	pgFindByUsername = `SELECT id, username, email, password_hash, name, firstname, date_of_birth,
	phone_number, address, is_verified, created_at, updated_at
FROM accounts WHERE username = $1`

	pgInsert = `INSERT INTO accounts (id, username, email, password_hash, name, firstname, date_of_birth,
	phone_number, address, is_verified, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	pgMarkVerified = `UPDATE accounts SET is_verified = TRUE, updated_at = $2
WHERE username = $1 AND is_verified = FALSE`
)

// Postgres is a Store on a pgx pool.
type Postgres struct {
	tracer
	conn *pgxpool.Pool
}

func NewPostgres(conn *pgxpool.Pool, ins instrument.Instrumentation) *Postgres {
	return &Postgres{tracer: tracer{ins: ins}, conn: conn}
}

// - 23505 unique violation → goerror.ErrConflict
func (s *Postgres) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *Postgres) FindByUsername(ctx context.Context, username string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "FindByUsername")
	defer func() { s.endSpan(span, err) }()

	var acc entity.Account
	err = s.conn.QueryRow(ctx, pgFindByUsername, username).Scan(
		&acc.ID, &acc.Username, &acc.Email, &acc.PasswordHash, &acc.Name, &acc.Firstname, &acc.DateOfBirth,
		&acc.PhoneNumber, &acc.Address, &acc.IsVerified, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &acc, nil
}

func (s *Postgres) Insert(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "Insert")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, pgInsert,
		acc.ID, acc.Username, acc.Email, acc.PasswordHash, acc.Name, acc.Firstname, acc.DateOfBirth,
		acc.PhoneNumber, acc.Address, acc.IsVerified, acc.CreatedAt, acc.UpdatedAt,
	)
	err = s.mapError(err)
	return err
}

func (s *Postgres) MarkVerified(ctx context.Context, username string, at time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkVerified")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, pgMarkVerified, username, at)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}
