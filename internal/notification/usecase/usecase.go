package usecase

import (
	"bytes"
	"context"
	"html/template"

	"github.com/shandysiswandi/goaccount/internal/pkg/clock"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/shandysiswandi/goaccount/internal/pkg/mail"
	"github.com/shandysiswandi/goaccount/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

// Options holds the values shown in notification emails.
type Options struct {
	AppName      string
	PublicURL    string
	SupportEmail string
}

type Usecase struct {
	repoMail  repoMail
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
	opts      Options
}

type Dependency struct {
	RepoMail   repoMail
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
	Options    Options
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		repoMail:  dep.RepoMail,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
		opts:      dep.Options,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) renderTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Usecase) baseEmailTemplateData() map[string]any {
	return map[string]any{
		"app_name":      s.opts.AppName,
		"support_email": s.opts.SupportEmail,
		"year":          s.clock.Now().Format("2006"),
	}
}
