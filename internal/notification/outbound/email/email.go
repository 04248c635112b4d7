package email

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/shandysiswandi/goaccount/internal/pkg/mail"
)

// ErrNoRecipients is returned when a message has nobody to deliver to.
var ErrNoRecipients = errors.New("email: no recipients")

// Mail is the notification module's outbox. It normalises recipient lists
// before handing the message to the shared mail client.
type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

func (m *Mail) Send(ctx context.Context, msg mail.Message) error {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "Send")
	defer span.End()

	msg.To = normalizeRecipients(msg.To)
	msg.Cc = normalizeRecipients(msg.Cc)
	msg.Bcc = normalizeRecipients(msg.Bcc)

	span.SetAttributes(
		attribute.Int("mail.recipients", len(msg.To)+len(msg.Cc)+len(msg.Bcc)),
		attribute.String("mail.subject", msg.Subject),
	)

	if len(msg.To) == 0 {
		span.SetStatus(codes.Error, ErrNoRecipients.Error())
		return ErrNoRecipients
	}

	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// normalizeRecipients trims, lowercases and dedupes addresses, dropping blanks.
func normalizeRecipients(addrs []string) []string {
	out := lo.FilterMap(addrs, func(a string, _ int) (string, bool) {
		a = strings.ToLower(strings.TrimSpace(a))
		return a, a != ""
	})
	return lo.Uniq(out)
}
