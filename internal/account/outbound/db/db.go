package db

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Store persists accounts keyed by username.
//
// Insert reports goerror.ErrConflict when the username or email is taken and
// FindByUsername reports goerror.ErrNotFound on a miss. MarkVerified flips an
// unverified account and reports whether this call did the flip.
type Store interface {
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)
	Insert(ctx context.Context, acc entity.Account) error
	MarkVerified(ctx context.Context, username string, at time.Time) (bool, error)
}

type tracer struct {
	ins instrument.Instrumentation
}

func (t tracer) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.ins.Tracer("account.outbound.db").Start(ctx, name)
}

func (t tracer) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
