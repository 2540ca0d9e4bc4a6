// Package events carries order status changes over Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopwave/storefront/internal/domain"
)

const (
	TopicOrderStatus = "order-status"

	EventTypeOrderStatusChanged = "order.status_changed"

	headerEventType = "event_type"
)

var ErrUnknownEventType = errors.New("unknown event type")

type OrderStatusChanged struct {
	OrderID   string             `json:"order_id"`
	UserID    string             `json:"user_id"`
	Status    domain.OrderStatus `json:"status"`
	ChangedAt time.Time          `json:"changed_at"`
}

// Publisher is implemented by KafkaPublisher; the mock backend accepts nil.
type Publisher interface {
	PublishStatusChanged(ctx context.Context, ev OrderStatusChanged) error
}

// Encode builds the Kafka message for ev, keyed by order id so one order's
// updates stay ordered within a partition.
func Encode(ev OrderStatusChanged) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal order status event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(EventTypeOrderStatusChanged)},
		},
	}, nil
}

// Decode parses a message produced by Encode. Messages without an
// event_type header are accepted as status changes.
func Decode(m kafka.Message) (OrderStatusChanged, error) {
	for _, h := range m.Headers {
		if h.Key == headerEventType && string(h.Value) != EventTypeOrderStatusChanged {
			return OrderStatusChanged{}, fmt.Errorf("%w: %s", ErrUnknownEventType, h.Value)
		}
	}

	var ev OrderStatusChanged
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		return OrderStatusChanged{}, fmt.Errorf("parse order status event: %w", err)
	}
	if ev.OrderID == "" || ev.UserID == "" {
		return OrderStatusChanged{}, errors.New("order status event missing order_id or user_id")
	}
	if !ev.Status.Valid() {
		return OrderStatusChanged{}, fmt.Errorf("order status event has unknown status %q", ev.Status)
	}
	return ev, nil
}
