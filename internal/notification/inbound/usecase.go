package inbound

import (
	"context"

	"github.com/shandysiswandi/goaccount/internal/notification/usecase"
)

type uc interface {
	ConsumeAccountVerified(ctx context.Context, in usecase.ConsumeAccountVerifiedInput) error
}
