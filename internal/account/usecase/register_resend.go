package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
	"github.com/shandysiswandi/goaccount/internal/pkg/idempotency"
)

type RegisterResendInput struct {
	Username string `json:"username" validate:"required,username"`
}

// RegisterResend re-sends the verification email. Unknown and verified
// accounts get the same silent success as a real resend.
func (s *Usecase) RegisterResend(ctx context.Context, in RegisterResendInput) error {
	ctx, span := s.startSpan(ctx, "RegisterResend")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	acc, err := s.repoDB.FindByUsername(ctx, in.Username)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "username not registered for resend", "username", in.Username)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find account", "username", in.Username, "error", err)
		return goerror.NewServer(err)
	}

	if acc.IsVerified {
		slog.WarnContext(ctx, "resend requested for verified account", "username", acc.Username)
		return nil
	}

	err = s.idemp.Exec(ctx, "account:resend:"+acc.Username, func(ctx context.Context) error {
		return s.sendVerification(ctx, acc)
	},
		idempotency.WithLockDuration(s.opts.ResendWindow),
		idempotency.WithStateTTL(s.opts.ResendWindow),
		idempotency.WithReleaseOnError(),
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, idempotency.ErrAlreadyInProgress), errors.Is(err, idempotency.ErrAlreadyCompleted):
		slog.WarnContext(ctx, "verification resend throttled", "username", acc.Username)
		return ErrResendThrottled
	case errors.Is(err, ErrDelivery):
		return ErrDelivery
	default:
		var gerr *goerror.Error
		if errors.As(err, &gerr) {
			return err
		}
		slog.ErrorContext(ctx, "failed to track resend state", "username", acc.Username, "error", err)
		return goerror.NewServer(err)
	}
}
