package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
)

// Authenticate checks a username and password. The error is reserved for
// store failures; credential outcomes are carried by the result.
func (s *Usecase) Authenticate(ctx context.Context, username, password string) (entity.AuthResult, error) {
	ctx, span := s.startSpan(ctx, "Authenticate")
	defer span.End()

	acc, err := s.repoDB.FindByUsername(ctx, username)
	if errors.Is(err, goerror.ErrNotFound) {
		s.hash.Verify(s.dummyHash, password)
		return entity.AuthResultNotFound(), nil
	}
	if err != nil {
		return entity.AuthResult{}, err
	}

	if !s.hash.Verify(acc.PasswordHash, password) {
		return entity.AuthResultBadCredential(), nil
	}

	return entity.AuthResultFound(acc), nil
}

// authenticate wraps Authenticate with the login error mapping.
func (s *Usecase) authenticate(ctx context.Context, username, password string) (*entity.Account, error) {
	res, err := s.Authenticate(ctx, username, password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find account", "username", username, "error", err)
		return nil, goerror.NewServer(err)
	}

	switch res.Status {
	case entity.AuthFound:
		return res.Account, nil
	default:
		slog.WarnContext(ctx, "login rejected", "username", username, "reason", res.Status.String())
		return nil, ErrInvalidCredentials
	}
}
