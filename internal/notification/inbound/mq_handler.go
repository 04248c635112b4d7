package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/goaccount/internal/notification/usecase"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/shandysiswandi/goaccount/internal/pkg/messaging"
	"github.com/shandysiswandi/goaccount/internal/pkg/uid"
	"github.com/shandysiswandi/goaccount/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) AccountVerifiedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "AccountVerifiedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: account verified notification", "msg_id", msg.ID())

	var payload event.AccountVerified
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of account verified notification", "msg_id", msg.ID(), "error", err)
		return nil
	}

	if err := h.uc.ConsumeAccountVerified(ctx, usecase.ConsumeAccountVerifiedInput{
		AccountID: payload.AccountID,
		Username:  payload.Username,
		Email:     payload.Email,
		Name:      payload.Name,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume account verified", "account_id", payload.AccountID, "error", err)
		return err
	}

	return nil
}
