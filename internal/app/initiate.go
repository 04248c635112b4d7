package app

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
	"github.com/nats-io/nats.go"
	libOTP "github.com/pquerna/otp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shandysiswandi/goaccount/internal/account/outbound/db"
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

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	bcrypt, err := hash.NewBcrypt(a.config.GetInt("hash.bcrypt.cost"))
	if err != nil {
		slog.Error("failed to init bcrypt hash", "error", err)
		os.Exit(1)
	}
	a.bcrypt = bcrypt

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake(int64(a.config.GetInt("app.node_id")))
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow

	a.totp = otp.NewTOTP(
		a.config.GetUint("otp.period_seconds"),
		a.config.GetUint("otp.skew"),
		libOTP.DigitsSix,
	)

	a.sealer = mfa.NewAESGCMEncryptor(a.sealingKeys())
}

// sealingKeys reads mfa.secret, or generates a key for this process when it is empty.
func (a *App) sealingKeys() mfa.KeyProvider {
	encoded := strings.TrimSpace(a.config.GetString("mfa.secret"))
	if encoded == "" {
		keys, err := mfa.NewRandomKeyProvider()
		if err != nil {
			slog.Error("failed to generate mfa sealing key", "error", err)
			os.Exit(1)
		}
		slog.Warn("mfa.secret is empty, login tokens will not survive a restart")
		return keys
	}

	rawKey, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		slog.Error("failed to decode mfa secret", "error", err)
		os.Exit(1)
	}
	if len(rawKey) != mfa.KeySize {
		slog.Error("failed to init mfa sealer, secret must be 32 bytes (AES-256)", "length", len(rawKey))
		os.Exit(1)
	}

	return mfa.StaticKeyProvider{KeyBytes: rawKey}
}

func (a *App) initJWT() {
	secret := []byte(a.config.GetString("jwt.secret"))
	if len(secret) == 0 {
		slog.Warn("jwt.secret is empty, a secret is generated and tokens will not survive a restart")
	}

	codec, err := jwt.NewHS256(jwt.Config{
		Secret: secret,
		TTL:    a.config.GetMinute("jwt.ttl_minutes"),
		Clock:  a.clock,
		UUID:   a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = codec
}

func (a *App) initDatabase() {
	a.dbDriver = strings.ToLower(strings.TrimSpace(a.config.GetString("database.driver")))

	switch a.dbDriver {
	case db.DriverPostgres:
		a.initPostgres()
	case db.DriverSQLite:
		a.initSQLite()
	case db.DriverRedis, db.DriverMemory:
		// redis is connected by initCache; memory needs no connection
	default:
		slog.Error("failed to init database, unknown driver", "driver", a.dbDriver)
		os.Exit(1)
	}
}

func (a *App) initPostgres() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.postgres.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.postgres.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.postgres.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.postgres.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.postgres.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.postgres.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.pgConn = pool
}

func (a *App) initSQLite() {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=ON",
		a.config.GetString("database.sqlite.path"))

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("failed to open sqlite database", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		slog.Error("failed to ping sqlite database", "error", err)
		os.Exit(1)
	}

	// single writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	a.sqliteConn = conn
}

// initCache connects redis when it backs the account store or the resend
// throttle. Without it the throttle is tracked in process.
func (a *App) initCache() {
	url := strings.TrimSpace(a.config.GetString("redis.url"))
	if url == "" {
		if a.dbDriver == db.DriverRedis {
			slog.Error("failed to init redis, database.driver is redis but redis.url is empty")
			os.Exit(1)
		}
		slog.Warn("redis.url is empty, resend throttle is tracked in process")
		a.idemp = idempotency.NewMemory(a.clock)
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)
}

func (a *App) initMail() {
	mail, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     a.config.GetString("mail.host"),
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
		Timeout:  a.config.GetSecond("mail.timeout_seconds"),
	})
	if err != nil {
		slog.Error("failed to init mail", "error", err)
		os.Exit(1)
	}

	a.mail = mail
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(driver, messaging.FactoryOptions{
		NATS: messaging.NATSConfig{
			URL:  a.config.GetString("messaging.nats.url"),
			Name: a.config.GetString("messaging.nats.name"),
			Options: []nats.Option{
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Postgres",
			fn: func(context.Context) error {
				if a.pgConn != nil {
					a.pgConn.Close()
				}

				return nil
			},
		},
		{
			name: "SQLite",
			fn: func(context.Context) error {
				if a.sqliteConn == nil {
					return nil
				}
				return a.sqliteConn.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
