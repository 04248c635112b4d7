package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
	"github.com/shandysiswandi/goaccount/internal/pkg/valueobject"
)

const dateOfBirthLayout = "2006-01-02"

type RegisterInput struct {
	Username    string `json:"username" validate:"required,username"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,password"`
	Name        string `json:"name" validate:"required,max=100"`
	Firstname   string `json:"firstname" validate:"required,max=100"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	PhoneNumber string `json:"phone_number" validate:"required,phone_cm"`
	Address     string `json:"address" validate:"required,max=255"`
}

type RegisterOutput struct {
	Username string
	Message  string
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Firstname = strings.TrimSpace(in.Firstname)
	in.Address = strings.TrimSpace(in.Address)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	dob, err := time.Parse(dateOfBirthLayout, in.DateOfBirth)
	if err != nil {
		return nil, goerror.NewInvalidInput(nil, "date_of_birth", "date_of_birth must be a date like 2000-01-31")
	}

	hashed, err := s.hash.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	acc := entity.Account{
		ID:           s.uid.Generate(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Name:         in.Name,
		Firstname:    in.Firstname,
		DateOfBirth:  dob,
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repoDB.Insert(ctx, acc); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			slog.WarnContext(ctx, "username or email already registered", "username", acc.Username)
			return nil, ErrDuplicateKey
		}
		slog.ErrorContext(ctx, "failed to repo insert account", "username", acc.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.publish(ctx, "PublishAccountRegistered", func(ctx context.Context) error {
		return s.repoMessaging.PublishAccountRegistered(ctx, AccountRegisteredEvent{
			AccountID:    acc.ID,
			Username:     acc.Username,
			Email:        acc.Email,
			RegisteredAt: now,
		})
	})

	if err := s.sendVerification(ctx, &acc); err != nil {
		return nil, err
	}

	return &RegisterOutput{
		Username: acc.Username,
		Message: fmt.Sprintf("Hello %s, thanks for choosing our services. "+
			"Please check your email to verify your account.", acc.Username),
	}, nil
}

// sendVerification issues a {username} token and mails the confirmation link.
func (s *Usecase) sendVerification(ctx context.Context, acc *entity.Account) error {
	token, err := s.jwt.Issue(valueobject.JSONMap{claimUsername: acc.Username}, s.opts.TokenTTL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue verification token", "username", acc.Username, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMail.SendVerification(ctx, acc.Email, acc.Username, s.verificationLink(token)); err != nil {
		slog.ErrorContext(ctx, "failed to send verification email", "username", acc.Username, "error", err)
		return ErrDelivery
	}

	return nil
}
