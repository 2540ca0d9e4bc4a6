package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopwave/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func shipped() OrderStatusChanged {
	return OrderStatusChanged{
		OrderID:   "o-1",
		UserID:    "u-1",
		Status:    domain.OrderStatusShipped,
		ChangedAt: time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestPublishStatusChanged_WritesKeyedMessage(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.PublishStatusChanged(context.Background(), shipped()))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "o-1", string(msg.Key))
	assert.JSONEq(t, `{"order_id":"o-1","user_id":"u-1","status":"shipped","changed_at":"2026-10-02T08:00:00Z"}`, string(msg.Value))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, EventTypeOrderStatusChanged, string(msg.Headers[0].Value))
}

func TestPublishStatusChanged_WriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &KafkaPublisher{writer: w}

	err := p.PublishStatusChanged(context.Background(), shipped())
	assert.ErrorContains(t, err, "broker down")
}

func TestClose_ClosesWriter(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestDecode_RoundTrip(t *testing.T) {
	msg, err := Encode(shipped())
	require.NoError(t, err)

	ev, err := Decode(msg)
	require.NoError(t, err)
	assert.Equal(t, "o-1", ev.OrderID)
	assert.Equal(t, domain.OrderStatusShipped, ev.Status)
	assert.True(t, shipped().ChangedAt.Equal(ev.ChangedAt))
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		msg  kafka.Message
	}{
		{"not json", kafka.Message{Value: []byte("{oops")}},
		{"missing order id", kafka.Message{Value: []byte(`{"user_id":"u-1","status":"shipped"}`)}},
		{"unknown status", kafka.Message{Value: []byte(`{"order_id":"o-1","user_id":"u-1","status":"lost"}`)}},
		{"other event type", kafka.Message{
			Value:   []byte(`{"order_id":"o-1","user_id":"u-1","status":"shipped"}`),
			Headers: []kafka.Header{{Key: "event_type", Value: []byte("checkout.completed")}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.msg)
			assert.Error(t, err)
		})
	}
}

func TestDecode_OtherEventTypeIsTyped(t *testing.T) {
	_, err := Decode(kafka.Message{
		Value:   []byte(`{}`),
		Headers: []kafka.Header{{Key: "event_type", Value: []byte("checkout.completed")}},
	})
	assert.ErrorIs(t, err, ErrUnknownEventType)
}
