package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
	"github.com/shandysiswandi/goaccount/internal/pkg/mfa"
	"github.com/shandysiswandi/goaccount/internal/pkg/valueobject"
)

const tokenTypeBearer = "bearer"

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	AccessToken string
	TokenType   string
}

// Login is the first phase of sign-in: it checks the password, then mails an
// OTP code whose secret travels sealed inside the returned token.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	acc, err := s.authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}

	// Same answer as a bad password; the caller can ask for a new
	// verification email through the resend endpoint.
	if !acc.IsVerified {
		slog.WarnContext(ctx, "login for unverified account", "username", acc.Username)
		return nil, ErrInvalidCredentials
	}

	secret, err := s.otp.NewSecret()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp secret", "username", acc.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	sealed, err := mfa.SealString(s.sealer, secret, s.otpScope(acc.Username))
	if err != nil {
		slog.ErrorContext(ctx, "failed to seal otp secret", "username", acc.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.jwt.Issue(valueobject.JSONMap{
		claimUsername:  acc.Username,
		claimOTPSecret: sealed,
	}, s.opts.TokenTTL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue login token", "username", acc.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	code, err := s.otp.CurrentCode(secret, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to compute otp code", "username", acc.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMail.SendOTP(ctx, acc.Email, acc.Username, code); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "username", acc.Username, "error", err)
		return nil, ErrDelivery
	}

	return &LoginOutput{AccessToken: token, TokenType: tokenTypeBearer}, nil
}
