package mq

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/goaccount/internal/account/usecase"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/shandysiswandi/goaccount/internal/pkg/messaging"
	"github.com/shandysiswandi/goaccount/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

// RetryConfig bounds how hard a publish is retried. Zero values take the defaults.
type RetryConfig struct {
	Base       time.Duration
	Cap        time.Duration
	MaxRetries uint64
}

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
	retry  RetryConfig
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation, rc RetryConfig) *Messaging {
	if rc.Base <= 0 {
		rc.Base = 200 * time.Millisecond
	}
	if rc.Cap <= 0 {
		rc.Cap = 5 * time.Second
	}
	if rc.MaxRetries == 0 {
		rc.MaxRetries = 5
	}
	return &Messaging{client: client, ins: ins, retry: rc}
}

func (m *Messaging) PublishAccountRegistered(ctx context.Context, ev usecase.AccountRegisteredEvent) error {
	return m.publish(ctx, "PublishAccountRegistered", event.AccountRegisteredSubject, event.AccountRegistered{
		AccountID:    ev.AccountID,
		Username:     ev.Username,
		Email:        ev.Email,
		RegisteredAt: ev.RegisteredAt.UTC().Format(time.RFC3339),
	})
}

func (m *Messaging) PublishAccountVerified(ctx context.Context, ev usecase.AccountVerifiedEvent) error {
	return m.publish(ctx, "PublishAccountVerified", event.AccountVerifiedSubject, event.AccountVerified{
		AccountID:  ev.AccountID,
		Username:   ev.Username,
		Email:      ev.Email,
		Name:       ev.Name,
		VerifiedAt: ev.VerifiedAt.UTC().Format(time.RFC3339),
	})
}

func (m *Messaging) publish(ctx context.Context, name, subject string, payload any) error {
	ctx, span := m.ins.Tracer("account.outbound.mq").Start(ctx, name)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	msg := messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(instrument.GetCorrelationID(ctx))}},
	}

	b := retry.NewFibonacci(m.retry.Base)
	b = retry.WithCappedDuration(m.retry.Cap, b)
	b = retry.WithMaxRetries(m.retry.MaxRetries, b)

	attempt := 0
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if _, err := m.client.Publish(ctx, subject, msg); err != nil {
			slog.WarnContext(ctx, "failed to publish event", "subject", subject, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "event dropped after retries", "subject", subject, "attempts", attempt, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
