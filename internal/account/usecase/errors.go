package usecase

import "github.com/shandysiswandi/goaccount/internal/pkg/goerror"

var (
	ErrInvalidCredentials = goerror.NewBusiness("invalid username or password", goerror.CodeUnauthorized)
	ErrInvalidToken       = goerror.NewBusiness("invalid or expired token", goerror.CodeUnauthorized)
	ErrUnauthorized       = goerror.NewBusiness("could not validate credentials", goerror.CodeUnauthorized)
	ErrDuplicateKey       = goerror.NewBusiness("account already registered", goerror.CodeDuplicate)
	ErrDelivery           = goerror.NewServerCode("failed to deliver email, please try again later", goerror.CodeDelivery)
	ErrAccountNotFound    = goerror.NewBusiness("account not found", goerror.CodeNotFound)
	ErrResendThrottled    = goerror.NewBusiness("verification email recently sent", goerror.CodeTooManyRequest)
)
