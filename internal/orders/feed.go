package orders

import (
	"context"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/shopwave/storefront/internal/events"
)

// MessageReader is satisfied by *kafka.Reader.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Feed follows order status events for one user.
type Feed struct {
	reader   MessageReader
	history  *History
	userID   string
	onChange func(events.OrderStatusChanged)
	log      *slog.Logger
}

// NewFeed builds a feed. onChange may be nil; it runs only for events that
// changed a tracked order.
func NewFeed(reader MessageReader, history *History, userID string, onChange func(events.OrderStatusChanged), log *slog.Logger) *Feed {
	if log == nil {
		log = slog.Default()
	}
	return &Feed{
		reader:   reader,
		history:  history,
		userID:   userID,
		onChange: onChange,
		log:      log.With("component", "order-feed", "user_id", userID),
	}
}

func (f *Feed) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		f.processMessage(ctx)
	}
}

func (f *Feed) Close() {
	if err := f.reader.Close(); err != nil {
		f.log.Warn("close reader failed", slog.Any("err", err))
	}
}

func (f *Feed) processMessage(ctx context.Context) {
	m, err := f.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		f.log.Error("read message failed", slog.Any("err", err))
		return
	}

	ev, err := events.Decode(m)
	if err != nil {
		if !errors.Is(err, events.ErrUnknownEventType) {
			f.log.Warn("skipping malformed message", slog.Int64("offset", m.Offset), slog.Any("err", err))
		}
		return
	}
	if ev.UserID != f.userID {
		return
	}

	if f.history.Apply(ev) && f.onChange != nil {
		f.onChange(ev)
	}
}
