package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
)

const (
	liteFindByUsername = `SELECT id, username, email, password_hash, name, firstname, date_of_birth,
	phone_number, address, is_verified, created_at, updated_at
FROM accounts WHERE username = ?`

	liteInsert = `INSERT INTO accounts (id, username, email, password_hash, name, firstname, date_of_birth,
	phone_number, address, is_verified, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	liteMarkVerified = `UPDATE accounts SET is_verified = 1, updated_at = ?
WHERE username = ? AND is_verified = 0`
)

// SQLite is a Store on a mattn/go-sqlite3 database.
type SQLite struct {
	tracer
	conn *sql.DB
}

func NewSQLite(conn *sql.DB, ins instrument.Instrumentation) *SQLite {
	return &SQLite{tracer: tracer{ins: ins}, conn: conn}
}

func (s *SQLite) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) &&
		(liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return goerror.ErrConflict
	}

	return err
}

func (s *SQLite) FindByUsername(ctx context.Context, username string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "FindByUsername")
	defer func() { s.endSpan(span, err) }()

	var acc entity.Account
	err = s.conn.QueryRowContext(ctx, liteFindByUsername, username).Scan(
		&acc.ID, &acc.Username, &acc.Email, &acc.PasswordHash, &acc.Name, &acc.Firstname, &acc.DateOfBirth,
		&acc.PhoneNumber, &acc.Address, &acc.IsVerified, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &acc, nil
}

func (s *SQLite) Insert(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "Insert")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.ExecContext(ctx, liteInsert,
		acc.ID, acc.Username, acc.Email, acc.PasswordHash, acc.Name, acc.Firstname, acc.DateOfBirth.UTC(),
		acc.PhoneNumber, acc.Address, acc.IsVerified, acc.CreatedAt.UTC(), acc.UpdatedAt.UTC(),
	)
	err = s.mapError(err)
	return err
}

func (s *SQLite) MarkVerified(ctx context.Context, username string, at time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkVerified")
	defer func() { s.endSpan(span, err) }()

	res, err := s.conn.ExecContext(ctx, liteMarkVerified, at.UTC(), username)
	if err != nil {
		return false, s.mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}
