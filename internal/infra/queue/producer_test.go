package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-manager/internal/entity"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	calls []published
	err   error
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.calls = append(c.calls, published{exchange, key, msg})
	return c.err
}

func TestPublishLeadEvent(t *testing.T) {
	ch := &fakeChannel{}
	p := NewProducer(ch)
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	lead := entity.NewLead("Ada", "Lovelace", "ada@example.com", entity.SourceWebsite, at)
	lead.Score = 42

	require.NoError(t, p.PublishLeadEvent(context.Background(), NewLeadEvent(EventLeadUpdated, lead, at)))
	require.Len(t, ch.calls, 1)

	call := ch.calls[0]
	assert.Equal(t, ExchangeName, call.exchange)
	assert.Equal(t, "lead.updated", call.key)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.Equal(t, amqp.Persistent, call.msg.DeliveryMode)

	var got LeadEvent
	require.NoError(t, json.Unmarshal(call.msg.Body, &got))
	assert.Equal(t, EventLeadUpdated, got.Type)
	assert.Equal(t, lead.ID, got.LeadID)
	assert.Equal(t, "Ada Lovelace", got.FullName)
	assert.Equal(t, entity.SourceWebsite, got.Source)
	assert.Equal(t, entity.StatusNew, got.Status)
	assert.Equal(t, 42, got.Score)
}

func TestPublishLeadEvent_ChannelError(t *testing.T) {
	p := NewProducer(&fakeChannel{err: amqp.ErrClosed})
	lead := entity.NewLead("Ada", "Lovelace", "ada@example.com", entity.SourceWebsite, time.Now())

	err := p.PublishLeadEvent(context.Background(), NewLeadEvent(EventLeadCreated, lead, time.Now()))
	assert.True(t, errors.Is(err, amqp.ErrClosed))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishLeadEvent(context.Background(), LeadEvent{}))
}
