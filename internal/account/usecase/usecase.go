package usecase

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/pkg/clock"
	"github.com/shandysiswandi/goaccount/internal/pkg/goroutine"
	"github.com/shandysiswandi/goaccount/internal/pkg/hash"
	"github.com/shandysiswandi/goaccount/internal/pkg/idempotency"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/shandysiswandi/goaccount/internal/pkg/jwt"
	"github.com/shandysiswandi/goaccount/internal/pkg/mfa"
	"github.com/shandysiswandi/goaccount/internal/pkg/otp"
	"github.com/shandysiswandi/goaccount/internal/pkg/uid"
	"github.com/shandysiswandi/goaccount/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	claimUsername  = "username"
	claimOTPSecret = "otp_secret"

	verificationPath = "/api/v1/account/verification"
)

type AccountRegisteredEvent struct {
	AccountID    int64
	Username     string
	Email        string
	RegisteredAt time.Time
}

type AccountVerifiedEvent struct {
	AccountID  int64
	Username   string
	Email      string
	Name       string
	VerifiedAt time.Time
}

type repoDB interface {
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)
	Insert(ctx context.Context, acc entity.Account) error
	MarkVerified(ctx context.Context, username string, at time.Time) (bool, error)
}

type repoMail interface {
	SendVerification(ctx context.Context, to, username, link string) error
	SendOTP(ctx context.Context, to, username, code string) error
}

type repoMessaging interface {
	PublishAccountRegistered(ctx context.Context, ev AccountRegisteredEvent) error
	PublishAccountVerified(ctx context.Context, ev AccountVerifiedEvent) error
}

// Options is the immutable account configuration read once at startup.
type Options struct {
	// TokenTTL is the lifetime of verification and login tokens; zero uses the codec default.
	TokenTTL time.Duration
	// PublicURL is the externally reachable base URL used in verification links.
	PublicURL string
	// ResendWindow is the minimum interval between two verification emails for one username.
	ResendWindow time.Duration
}

type Usecase struct {
	repoDB        repoDB
	repoMail      repoMail
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	hash          hash.Hash
	jwt           jwt.Codec
	otp           otp.OTP
	sealer        mfa.Encryptor
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
	opts          Options

	// dummyHash is compared when no account matches, so a miss costs one bcrypt round too.
	dummyHash string
}

type Dependency struct {
	RepoDB        repoDB
	RepoMail      repoMail
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Hash          hash.Hash
	JWT           jwt.Codec
	OTP           otp.OTP
	Sealer        mfa.Encryptor
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
	Options       Options
}

func New(dep Dependency) *Usecase {
	s := &Usecase{
		repoDB:        dep.RepoDB,
		repoMail:      dep.RepoMail,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		hash:          dep.Hash,
		jwt:           dep.JWT,
		otp:           dep.OTP,
		sealer:        dep.Sealer,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
		opts:          dep.Options,
	}

	if h, err := s.hash.Hash("goaccount-timing-equalizer"); err == nil {
		s.dummyHash = string(h)
	} else {
		slog.Warn("failed to prepare dummy password hash", "error", err)
	}

	return s
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}

// publish runs fn in the background, detached from the request lifetime.
func (s *Usecase) publish(ctx context.Context, name string, fn func(ctx context.Context) error) {
	s.goroutine.Go(context.WithoutCancel(ctx), name, fn)
}

func (s *Usecase) verificationLink(token string) string {
	return strings.TrimRight(s.opts.PublicURL, "/") + verificationPath + "?token=" + url.QueryEscape(token)
}

func (s *Usecase) otpScope(username string) mfa.Scope {
	return mfa.Scope{Subject: username, Purpose: mfa.PurposeOTPSeed}
}
