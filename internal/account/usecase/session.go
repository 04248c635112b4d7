package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
	"github.com/shandysiswandi/goaccount/internal/pkg/mfa"
)

type ResolveSessionInput struct {
	Token   string
	OTPCode string
}

// ResolveSession is the second phase of sign-in. Every rejection returns the
// same ErrUnauthorized; only store outages surface as server errors.
func (s *Usecase) ResolveSession(ctx context.Context, in ResolveSessionInput) (*entity.Account, error) {
	ctx, span := s.startSpan(ctx, "ResolveSession")
	defer span.End()

	reject := func(reason string, args ...any) (*entity.Account, error) {
		slog.WarnContext(ctx, "session rejected", append([]any{"reason", reason}, args...)...)
		return nil, ErrUnauthorized
	}

	token := strings.TrimSpace(in.Token)
	code := strings.TrimSpace(in.OTPCode)
	if token == "" || code == "" {
		return reject("missing token or otp code")
	}

	claims, err := s.jwt.Decode(token)
	if err != nil {
		return reject("token", "kind", decodeReason(err))
	}

	// A verification token carries only the username.
	if !claims.Has(claimOTPSecret) {
		return reject("not a login token")
	}

	username := claims.GetString(claimUsername)
	sealed := claims.GetString(claimOTPSecret)
	if username == "" || sealed == "" {
		return reject("missing claims")
	}

	acc, err := s.repoDB.FindByUsername(ctx, username)
	if errors.Is(err, goerror.ErrNotFound) {
		return reject("account not found", "username", username)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find account", "username", username, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !acc.IsVerified {
		return reject("account not verified", "username", username)
	}

	secret, err := mfa.OpenString(s.sealer, sealed, s.otpScope(acc.Username))
	if err != nil {
		return reject("otp secret unreadable", "username", username)
	}

	if !s.otp.Verify(code, secret, s.clock.Now()) {
		return reject("otp mismatch", "username", username)
	}

	return acc, nil
}
