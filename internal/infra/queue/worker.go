package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// LeadNotifier delivers a notification about a newly created lead.
type LeadNotifier interface {
	SendNewLead(event LeadEvent) error
}

// Consumer is the subset of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier LeadNotifier
	Logger   *zap.Logger
}

func NewWorker(ch Consumer, notifier LeadNotifier, logger *zap.Logger) *Worker {
	return &Worker{Channel: ch, Notifier: notifier, Logger: logger}
}

// Start consumes queueName until ctx is cancelled or the delivery channel
// closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer on %s: %w", queueName, err)
	}

	w.Logger.Info("notification worker waiting", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("notification worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Logger.Warn("delivery channel closed", zap.String("queue", queueName))
				return nil
			}
			w.handle(d)
		}
	}
}

// handle acks on success. Malformed bodies and failed sends are rejected
// without requeue so they land in the dead-letter queue.
func (w *Worker) handle(d amqp.Delivery) {
	var event LeadEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Logger.Error("malformed lead event", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	if event.Type != EventLeadCreated {
		_ = d.Ack(false)
		return
	}

	if err := w.Notifier.SendNewLead(event); err != nil {
		w.Logger.Error("new lead notification failed",
			zap.String("lead_id", event.LeadID), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	w.Logger.Info("new lead notification sent", zap.String("lead_id", event.LeadID))
	_ = d.Ack(false)
}
