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
	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/entity"
)

type fakeAck struct {
	acked, nacked, requeued bool
}

func (a *fakeAck) Ack(uint64, bool) error { a.acked = true; return nil }

func (a *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}

func (a *fakeAck) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}

type fakeNotifier struct {
	got []LeadEvent
	err error
}

func (n *fakeNotifier) SendNewLead(e LeadEvent) error {
	n.got = append(n.got, e)
	return n.err
}

func delivery(t *testing.T, ack *fakeAck, body any) amqp.Delivery {
	t.Helper()
	raw, ok := body.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, Body: raw}
}

func createdEvent() LeadEvent {
	lead := entity.NewLead("Ada", "Lovelace", "ada@example.com", entity.SourceEvents, time.Now())
	return NewLeadEvent(EventLeadCreated, lead, time.Now())
}

func TestWorkerHandle(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		notifyErr  error
		wantAck    bool
		wantNotify int
	}{
		{"created is notified", createdEvent(), nil, true, 1},
		{"other events are skipped", LeadEvent{Type: EventLeadDeleted, LeadID: "x"}, nil, true, 0},
		{"malformed is dead-lettered", []byte("{not json"), nil, false, 0},
		{"send failure is dead-lettered", createdEvent(), errors.New("smtp down"), false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAck{}
			n := &fakeNotifier{err: tt.notifyErr}
			w := NewWorker(nil, n, zap.NewNop())

			w.handle(delivery(t, ack, tt.body))

			assert.Equal(t, tt.wantAck, ack.acked)
			assert.Equal(t, !tt.wantAck, ack.nacked)
			assert.False(t, ack.requeued)
			assert.Len(t, n.got, tt.wantNotify)
		})
	}
}

type fakeConsumer struct {
	ch  chan amqp.Delivery
	err error
}

func (c *fakeConsumer) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return c.ch, c.err
}

func TestWorkerStart(t *testing.T) {
	msgs := make(chan amqp.Delivery, 1)
	n := &fakeNotifier{}
	w := NewWorker(&fakeConsumer{ch: msgs}, n, zap.NewNop())

	ack := &fakeAck{}
	msgs <- delivery(t, ack, createdEvent())
	close(msgs)

	require.NoError(t, w.Start(context.Background(), QueueName))
	assert.True(t, ack.acked)
	assert.Len(t, n.got, 1)
}

func TestWorkerStart_ConsumeError(t *testing.T) {
	w := NewWorker(&fakeConsumer{err: amqp.ErrClosed}, &fakeNotifier{}, zap.NewNop())
	assert.ErrorIs(t, w.Start(context.Background(), QueueName), amqp.ErrClosed)
}
