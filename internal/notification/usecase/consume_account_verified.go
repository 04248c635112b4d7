package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goaccount/internal/pkg/mail"
)

const welcomeSubject = "Welcome aboard"

const welcomeTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <p>Hello {{.name}},</p>
  <p>Your {{.app_name}} account <strong>{{.username}}</strong> is now verified.</p>
  <p>You can sign in at <a href="{{.login_url}}">{{.login_url}}</a>.</p>
  {{if .support_email}}<p>Questions? Write to {{.support_email}}.</p>{{end}}
  <p style="color: #888; font-size: 12px;">&copy; {{.year}} {{.app_name}}</p>
</body>
</html>`

type ConsumeAccountVerifiedInput struct {
	AccountID int64  `validate:"required,gt=0"`
	Username  string `validate:"required"`
	Email     string `validate:"required,email"`
	Name      string
}

// ConsumeAccountVerified sends the welcome email. Invalid payloads are
// dropped; a mail failure is returned so the message is nacked.
func (s *Usecase) ConsumeAccountVerified(ctx context.Context, in ConsumeAccountVerifiedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeAccountVerified")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "account_id", in.AccountID, "error", err)
		return nil
	}

	name := in.Name
	if name == "" {
		name = in.Username
	}

	data := s.baseEmailTemplateData()
	data["name"] = name
	data["username"] = in.Username
	data["login_url"] = strings.TrimRight(s.opts.PublicURL, "/") + "/api/v1/account/token"

	body, err := s.renderTemplate("welcome", welcomeTemplate, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render welcome email", "account_id", in.AccountID, "error", err)
		return nil
	}

	if err := s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  welcomeSubject,
		HTMLBody: body,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send welcome email", "account_id", in.AccountID, "error", err)
		return err
	}

	return nil
}
