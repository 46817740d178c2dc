package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/lead-manager/internal/entity"
)

type EventType string

const (
	EventLeadCreated EventType = "lead.created"
	EventLeadUpdated EventType = "lead.updated"
	EventLeadDeleted EventType = "lead.deleted"
)

// LeadEvent is the message published after every successful mutation.
// The event type doubles as the routing key.
type LeadEvent struct {
	Type       EventType     `json:"type"`
	LeadID     string        `json:"lead_id"`
	FullName   string        `json:"full_name,omitempty"`
	Email      string        `json:"email,omitempty"`
	Company    string        `json:"company,omitempty"`
	Source     entity.Source `json:"source,omitempty"`
	Status     entity.Status `json:"status"`
	Score      int           `json:"score"`
	LeadValue  float64       `json:"lead_value"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewLeadEvent(t EventType, lead *entity.Lead, at time.Time) LeadEvent {
	return LeadEvent{
		Type:       t,
		LeadID:     lead.ID,
		FullName:   lead.FullName(),
		Email:      lead.Email,
		Company:    lead.Company,
		Source:     lead.Source,
		Status:     lead.Status,
		Score:      lead.Score,
		LeadValue:  lead.LeadValue,
		OccurredAt: at,
	}
}

// Publisher is the subset of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadEvent(ctx context.Context, event LeadEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal lead event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		string(event.Type),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         string(event.Type),
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishLeadEvent(context.Context, LeadEvent) error { return nil }
