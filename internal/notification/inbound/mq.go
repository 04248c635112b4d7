package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/goaccount/internal/pkg/config"
	"github.com/shandysiswandi/goaccount/internal/pkg/goroutine"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/shandysiswandi/goaccount/internal/pkg/messaging"
	"github.com/shandysiswandi/goaccount/internal/pkg/uid"
	"github.com/shandysiswandi/goaccount/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")
	buffer := cfg.GetInt("modules.notification.consumer_buffer")

	var consumers = []struct {
		name       string
		subject    string // where the publisher sent the message
		queueGroup string
		handler    messaging.Handler
	}{
		{
			name:       event.AccountVerifiedConsumerNotification,
			subject:    event.AccountVerifiedSubject,
			queueGroup: event.AccountVerifiedConsumerNotification,
			handler:    mqHandler.AccountVerifiedNotification,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, consumer.name, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.subject,
					consumer.handler,
					messaging.WithQueueGroup(consumer.queueGroup),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithBuffer(buffer),
				)
			})
		}
	}
}
