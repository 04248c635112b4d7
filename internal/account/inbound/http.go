package inbound

import (
	"context"

	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/account/usecase"
	"github.com/shandysiswandi/goaccount/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	RegisterResend(ctx context.Context, in usecase.RegisterResendInput) error
	ConfirmVerification(ctx context.Context, in usecase.ConfirmVerificationInput) (*usecase.ConfirmVerificationOutput, error)

	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	ResolveSession(ctx context.Context, in usecase.ResolveSessionInput) (*entity.Account, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/account/register", end.Register)
	r.POST("/api/v1/account/register/resend", end.RegisterResend)
	r.GET("/api/v1/account/verification", end.Verification)
	//
	r.POST("/api/v1/account/token", end.Token)
	r.GET("/api/v1/account/me", end.Me, router.Authenticate(end.authenticate))
}
