package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/shandysiswandi/goaccount/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	SubjectVerification = "Account Verification"
	SubjectOTP          = "Your OTP Verification Code"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Option("missingkey=error").ParseFS(templateFS, "templates/*.html"))

// Config carries the values shown in every email.
type Config struct {
	AppName  string
	TokenTTL time.Duration
	OTPValid time.Duration
}

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
	cfg    Config
}

func New(client mail.Mail, ins instrument.Instrumentation, cfg Config) *Mail {
	return &Mail{client: client, ins: ins, cfg: cfg}
}

func (m *Mail) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return m.ins.Tracer("account.outbound.mail").Start(ctx, name)
}

func (m *Mail) SendVerification(ctx context.Context, to, username, link string) (err error) {
	ctx, span := m.startSpan(ctx, "SendVerification")
	defer func() { endSpan(span, err) }()

	html, err := render("verification.html", map[string]any{
		"AppName":  m.cfg.AppName,
		"Username": username,
		"Link":     link,
		"ValidFor": humanize(m.cfg.TokenTTL),
	})
	if err != nil {
		return err
	}

	return m.client.Send(ctx, mail.Message{
		To:       []string{to},
		Subject:  SubjectVerification,
		HTMLBody: html,
		TextBody: fmt.Sprintf("Hello %s,\r\n\r\nConfirm your account by opening this link:\r\n%s\r\n", username, link),
	})
}

func (m *Mail) SendOTP(ctx context.Context, to, username, code string) (err error) {
	ctx, span := m.startSpan(ctx, "SendOTP")
	defer func() { endSpan(span, err) }()

	validFor := humanize(m.cfg.OTPValid)
	html, err := render("otp.html", map[string]any{
		"AppName":  m.cfg.AppName,
		"Username": username,
		"Code":     code,
		"ValidFor": validFor,
	})
	if err != nil {
		return err
	}

	return m.client.Send(ctx, mail.Message{
		To:       []string{to},
		Subject:  SubjectOTP,
		HTMLBody: html,
		TextBody: fmt.Sprintf("Your verification code is %s. It is valid for %s.\r\n", code, validFor),
	})
}

func render(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// humanize renders whole minutes, e.g. "5 minutes".
func humanize(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
