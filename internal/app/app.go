package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goaccount/internal/pkg/clock"
	"github.com/shandysiswandi/goaccount/internal/pkg/config"
	"github.com/shandysiswandi/goaccount/internal/pkg/goroutine"
	"github.com/shandysiswandi/goaccount/internal/pkg/hash"
	"github.com/shandysiswandi/goaccount/internal/pkg/idempotency"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/shandysiswandi/goaccount/internal/pkg/jwt"
	"github.com/shandysiswandi/goaccount/internal/pkg/mail"
	"github.com/shandysiswandi/goaccount/internal/pkg/messaging"
	"github.com/shandysiswandi/goaccount/internal/pkg/mfa"
	"github.com/shandysiswandi/goaccount/internal/pkg/otp"
	"github.com/shandysiswandi/goaccount/internal/pkg/router"
	"github.com/shandysiswandi/goaccount/internal/pkg/uid"
	"github.com/shandysiswandi/goaccount/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	bcrypt    hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	totp      otp.OTP
	jwt       jwt.Codec
	sealer    mfa.Encryptor

	// resources
	dbDriver   string
	pgConn     *pgxpool.Pool
	sqliteConn *sql.DB
	cacheConn  *redis.Client
	idemp      idempotency.Idempotency
	mail       mail.Mail
	messaging  messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
