package inbound

import (
	"context"

	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/account/usecase"
	"github.com/shandysiswandi/goaccount/internal/pkg/router"
)

type accountKey struct{}

// HTTPEndpoint exposes the account workflows over HTTP.
type HTTPEndpoint struct {
	uc uc
}

// Register creates an unverified account and mails its verification link.
// @Summary Register account
// @Tags Account
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Register payload"
// @Success 201 {object} router.successResponse{data=RegisterResponse}
// @Failure 400 {object} router.errorResponse "Invalid request body or username taken"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Email could not be delivered"
// @Router /api/v1/account/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Firstname:   req.Firstname,
		DateOfBirth: req.DateOfBirth,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{Username: resp.Username, msg: resp.Message}, nil
}

// RegisterResend re-sends the verification link of an unverified account.
// @Summary Resend verification email
// @Tags Account
// @Accept json
// @Produce json
// @Param request body RegisterResendRequest true "Resend payload"
// @Success 200 {object} router.successResponse{data=RegisterResendResponse}
// @Failure 429 {object} router.errorResponse "Resent too recently"
// @Router /api/v1/account/register/resend [post]
func (h *HTTPEndpoint) RegisterResend(r *router.Request) (any, error) {
	var req RegisterResendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RegisterResend(r.Context(), usecase.RegisterResendInput{Username: req.Username}); err != nil {
		return nil, err
	}

	return RegisterResendResponse{}, nil
}

// Verification confirms the account named by the token query parameter.
// @Summary Confirm account email
// @Tags Account
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} router.successResponse{data=VerificationResponse}
// @Failure 401 {object} router.errorResponse "Invalid or expired token"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Router /api/v1/account/verification [get]
func (h *HTTPEndpoint) Verification(r *router.Request) (any, error) {
	resp, err := h.uc.ConfirmVerification(r.Context(), usecase.ConfirmVerificationInput{
		Token: r.GetQuery("token"),
	})
	if err != nil {
		return nil, err
	}

	return VerificationResponse{Username: resp.Username, Outcome: string(resp.Outcome)}, nil
}

// Token checks credentials and mails an OTP code. It accepts a JSON body or
// an OAuth2 password-flow form.
// @Summary Log in
// @Tags Account
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body TokenRequest true "Credentials"
// @Success 200 {object} router.successResponse{data=TokenResponse}
// @Failure 401 {object} router.errorResponse "Invalid username or password"
// @Router /api/v1/account/token [post]
func (h *HTTPEndpoint) Token(r *router.Request) (any, error) {
	var req TokenRequest
	if r.IsForm() {
		username, err := r.FormField("username")
		if err != nil {
			return nil, err
		}
		password, err := r.FormField("password")
		if err != nil {
			return nil, err
		}
		req = TokenRequest{Username: username, Password: password}
	} else if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return TokenResponse{AccessToken: resp.AccessToken, TokenType: resp.TokenType}, nil
}

// Me returns the profile of the caller resolved by authenticate.
// @Summary Current account
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Param otp_code query string true "OTP code from the login email"
// @Success 200 {object} router.successResponse{data=MeResponse}
// @Failure 401 {object} router.errorResponse "Could not validate credentials"
// @Router /api/v1/account/me [get]
func (h *HTTPEndpoint) Me(r *router.Request) (any, error) {
	acc, ok := r.Context().Value(accountKey{}).(*entity.Account)
	if !ok || acc == nil {
		return nil, usecase.ErrUnauthorized
	}

	return MeResponse{
		ID:          acc.ID,
		Username:    acc.Username,
		Email:       acc.Email,
		Name:        acc.Name,
		Firstname:   acc.Firstname,
		DateOfBirth: acc.DateOfBirth.Format("2006-01-02"),
		PhoneNumber: acc.PhoneNumber,
		Address:     acc.Address,
		IsVerified:  acc.IsVerified,
		CreatedAt:   acc.CreatedAt,
	}, nil
}

func (h *HTTPEndpoint) authenticate(r *router.Request) (context.Context, error) {
	acc, err := h.uc.ResolveSession(r.Context(), usecase.ResolveSessionInput{
		Token:   r.BearerToken(),
		OTPCode: r.GetQuery("otp_code"),
	})
	if err != nil {
		return nil, err
	}

	return context.WithValue(r.Context(), accountKey{}, acc), nil
}
