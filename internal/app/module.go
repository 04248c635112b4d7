package app

import (
	"log/slog"
	"os"
	"time"

	"github.com/shandysiswandi/goaccount/internal/account"
	"github.com/shandysiswandi/goaccount/internal/account/outbound/db"
	"github.com/shandysiswandi/goaccount/internal/account/outbound/mail"
	"github.com/shandysiswandi/goaccount/internal/account/outbound/mq"
	"github.com/shandysiswandi/goaccount/internal/account/usecase"
	"github.com/shandysiswandi/goaccount/internal/notification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.account.enabled") {
		if err := account.New(account.Dependency{
			Ctx:         a.ctx,
			Router:      a.router,
			Goroutine:   a.goroutine,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Mail:        a.mail,
			Instrument:  a.ins,
			UID:         a.uid,
			Bcrypt:      a.bcrypt,
			JWT:         a.jwt,
			Totp:        a.totp,
			Sealer:      a.sealer,
			Clock:       a.clock,
			Validator:   a.validator,
			Conns: db.Conns{
				Postgres: a.pgConn,
				SQLite:   a.sqliteConn,
				Redis:    a.cacheConn,
			},
			Options: a.accountOptions(),
		}); err != nil {
			slog.Error("failed to init module account", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:        a.ctx,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Mail:       a.mail,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}

// accountOptions snapshots the account configuration once.
func (a *App) accountOptions() account.Options {
	tokenTTL := a.config.GetMinute("jwt.ttl_minutes")

	return account.Options{
		StoreDriver: a.dbDriver,
		Usecase: usecase.Options{
			TokenTTL:     tokenTTL,
			PublicURL:    a.config.GetString("app.public_url"),
			ResendWindow: a.config.GetSecond("modules.account.resend_window_seconds"),
		},
		Mail: mail.Config{
			AppName:  a.config.GetString("app.name"),
			TokenTTL: tokenTTL,
			OTPValid: time.Duration(a.config.GetUint("otp.period_seconds")) * time.Second,
		},
		Retry: mq.RetryConfig{
			Base:       time.Duration(a.config.GetInt("modules.account.publish_retry.base_millis")) * time.Millisecond,
			Cap:        a.config.GetSecond("modules.account.publish_retry.cap_seconds"),
			MaxRetries: uint64(a.config.GetUint("modules.account.publish_retry.max_retries")),
		},
	}
}
