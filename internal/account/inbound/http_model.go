package inbound

import (
	"net/http"
	"time"
)

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Firstname   string `json:"firstname"`
	DateOfBirth string `json:"date_of_birth"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

type RegisterResponse struct {
	Username string `json:"username"`
	msg      string
}

func (RegisterResponse) StatusCode() int { return http.StatusCreated }

func (r RegisterResponse) Message() string { return r.msg }

type RegisterResendRequest struct {
	Username string `json:"username"`
}

type RegisterResendResponse struct{}

func (RegisterResendResponse) Message() string {
	return "If an unverified account with that username exists, we have sent a new verification link."
}

type VerificationResponse struct {
	Username string `json:"username"`
	Outcome  string `json:"outcome"`
}

func (r VerificationResponse) Message() string {
	if r.Outcome == "already_verified" {
		return "Your account is already verified."
	}
	return "Your account has been verified. You can now log in."
}

type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (TokenResponse) Message() string {
	return "A verification code has been sent to your email."
}

type MeResponse struct {
	ID          int64     `json:"id,string"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Firstname   string    `json:"firstname"`
	DateOfBirth string    `json:"date_of_birth"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}
