package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
	"github.com/shandysiswandi/goaccount/internal/pkg/jwt"
)

type ConfirmVerificationInput struct {
	Token string `json:"token" validate:"required"`
}

type ConfirmVerificationOutput struct {
	Username string
	Outcome  entity.VerifyOutcome
}

// ConfirmVerification flips an account from unverified to verified. A second
// confirmation reports VerifyOutcomeAlreadyVerified and writes nothing.
func (s *Usecase) ConfirmVerification(ctx context.Context, in ConfirmVerificationInput) (*ConfirmVerificationOutput, error) {
	ctx, span := s.startSpan(ctx, "ConfirmVerification")
	defer span.End()

	in.Token = strings.TrimSpace(in.Token)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	claims, err := s.jwt.Decode(in.Token)
	if err != nil {
		slog.WarnContext(ctx, "verification token rejected", "reason", decodeReason(err))
		return nil, ErrInvalidToken
	}

	username := claims.GetString(claimUsername)
	if username == "" {
		slog.WarnContext(ctx, "verification token without username claim")
		return nil, ErrInvalidToken
	}

	acc, err := s.repoDB.FindByUsername(ctx, username)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "verification for unknown account", "username", username)
		return nil, ErrAccountNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find account", "username", username, "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &ConfirmVerificationOutput{Username: acc.Username, Outcome: entity.VerifyOutcomeAlreadyVerified}
	if acc.IsVerified {
		return out, nil
	}

	now := s.clock.Now()
	flipped, err := s.repoDB.MarkVerified(ctx, acc.Username, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark account verified", "username", acc.Username, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !flipped {
		// a concurrent confirmation won the conditional update
		return out, nil
	}

	s.publish(ctx, "PublishAccountVerified", func(ctx context.Context) error {
		return s.repoMessaging.PublishAccountVerified(ctx, AccountVerifiedEvent{
			AccountID:  acc.ID,
			Username:   acc.Username,
			Email:      acc.Email,
			Name:       acc.Name,
			VerifiedAt: now,
		})
	})

	out.Outcome = entity.VerifyOutcomeVerified
	return out, nil
}

// decodeReason names the internal decode failure for logs only.
func decodeReason(err error) string {
	var derr *jwt.DecodeError
	if errors.As(err, &derr) {
		return derr.Kind().String()
	}
	return "unknown"
}
