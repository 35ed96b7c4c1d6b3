package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"roadassist/internal/notification/app"
	"roadassist/internal/notification/domain"
	"roadassist/internal/shared/mq"
	"roadassist/internal/shared/util"
)

const (
	queueName  = "notifications"
	bindingKey = "notification.#"
)

// Worker drains the notification exchange and persists every envelope so
// users see their history even when they were offline at publish time.
type Worker struct {
	consumer *mq.Consumer
	service  *app.NotificationService
	logger   *util.Logger
}

func NewWorker(consumer *mq.Consumer, service *app.NotificationService, logger *util.Logger) *Worker {
	return &Worker{consumer: consumer, service: service, logger: logger}
}

// Run blocks until ctx is cancelled or the broker connection drops.
func (w *Worker) Run(ctx context.Context) error {
	instance := "Worker.Run"
	w.logger.OK(instance, fmt.Sprintf("consuming %s (binding %s)", queueName, bindingKey))

	return w.consumer.Consume(ctx, queueName, mq.NotificationExchange, bindingKey, func(body []byte) error {
		var env domain.Envelope
		if err := json.Unmarshal(body, &env); err != nil {
			// Malformed payloads are logged and acked; redelivery cannot fix them.
			w.logger.Warn(instance, fmt.Sprintf("dropping malformed envelope: %v", err))
			return nil
		}
		if env.UserID == "" {
			w.logger.Warn(instance, "dropping envelope without user_id")
			return nil
		}
		return w.service.Record(ctx, env)
	})
}
