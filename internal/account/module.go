package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shandysiswandi/goaccount/internal/account/inbound"
	"github.com/shandysiswandi/goaccount/internal/account/outbound/db"
	"github.com/shandysiswandi/goaccount/internal/account/outbound/mail"
	"github.com/shandysiswandi/goaccount/internal/account/outbound/mq"
	"github.com/shandysiswandi/goaccount/internal/account/usecase"
	"github.com/shandysiswandi/goaccount/internal/pkg/clock"
	"github.com/shandysiswandi/goaccount/internal/pkg/goroutine"
	"github.com/shandysiswandi/goaccount/internal/pkg/hash"
	"github.com/shandysiswandi/goaccount/internal/pkg/idempotency"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/shandysiswandi/goaccount/internal/pkg/jwt"
	pkgmail "github.com/shandysiswandi/goaccount/internal/pkg/mail"
	"github.com/shandysiswandi/goaccount/internal/pkg/messaging"
	"github.com/shandysiswandi/goaccount/internal/pkg/mfa"
	"github.com/shandysiswandi/goaccount/internal/pkg/otp"
	"github.com/shandysiswandi/goaccount/internal/pkg/router"
	"github.com/shandysiswandi/goaccount/internal/pkg/uid"
	"github.com/shandysiswandi/goaccount/internal/pkg/validator"
)

// Options is the account configuration snapshot taken at startup.
type Options struct {
	StoreDriver string
	Usecase     usecase.Options
	Mail        mail.Config
	Retry       mq.RetryConfig
}

type Dependency struct {
	Ctx         context.Context            `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Mail        pkgmail.Mail               `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	Bcrypt      hash.Hash                  `validate:"required"`
	JWT         jwt.Codec                  `validate:"required"`
	Totp        otp.OTP                    `validate:"required"`
	Sealer      mfa.Encryptor              `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	Conns       db.Conns
	Options     Options
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	store, err := db.NewFromDriver(dep.Options.StoreDriver, dep.Conns, dep.Instrument)
	if err != nil {
		return err
	}

	if err := migrate(dep.Ctx, dep.Options.StoreDriver, dep.Conns); err != nil {
		return fmt.Errorf("account: migrate %s store: %w", dep.Options.StoreDriver, err)
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:        store,
		RepoMail:      mail.New(dep.Mail, dep.Instrument, dep.Options.Mail),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument, dep.Options.Retry),
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Hash:          dep.Bcrypt,
		JWT:           dep.JWT,
		OTP:           dep.Totp,
		Sealer:        dep.Sealer,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
		Options:       dep.Options.Usecase,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}

// migrate applies the embedded schema for the SQL drivers.
func migrate(ctx context.Context, driver string, conns db.Conns) error {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case db.DriverPostgres:
		conn := stdlib.OpenDBFromPool(conns.Postgres)
		defer conn.Close()
		return db.Migrate(ctx, conn, db.DriverPostgres)
	case db.DriverSQLite:
		return db.Migrate(ctx, conns.SQLite, db.DriverSQLite)
	default:
		return nil
	}
}
