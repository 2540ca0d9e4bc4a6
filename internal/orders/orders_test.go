package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopwave/storefront/internal/domain"
	"github.com/shopwave/storefront/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	list     *domain.OrderList
	order    *domain.Order
	err      error
	statuses []domain.OrderStatus
}

func (g *stubGateway) ListOrders(_ context.Context, status domain.OrderStatus) (*domain.OrderList, error) {
	g.statuses = append(g.statuses, status)
	if g.err != nil {
		return nil, g.err
	}
	return g.list, nil
}

func (g *stubGateway) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	if g.err != nil {
		return nil, g.err
	}
	if g.order == nil || g.order.ID != id {
		return nil, domain.ErrNotFound
	}
	return g.order, nil
}

func twoOrders() *domain.OrderList {
	return &domain.OrderList{
		Orders: []domain.Order{
			{ID: "o-1", Status: domain.OrderStatusPending},
			{ID: "o-2", Status: domain.OrderStatusProcessing},
		},
		StatusCounts: map[domain.OrderStatus]int{
			domain.OrderStatusPending:    1,
			domain.OrderStatusProcessing: 1,
			domain.OrderStatusShipped:    0,
		},
	}
}

func statusEvent(orderID, userID string, status domain.OrderStatus) events.OrderStatusChanged {
	return events.OrderStatusChanged{OrderID: orderID, UserID: userID, Status: status, ChangedAt: time.Now()}
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	gw := &stubGateway{list: twoOrders()}
	h := NewHistory(gw, nil)

	_, err := h.List(context.Background(), "lost")

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, gw.statuses)
}

func TestList_PassesFilterAndKeepsSnapshot(t *testing.T) {
	gw := &stubGateway{list: twoOrders()}
	h := NewHistory(gw, nil)

	list, err := h.List(context.Background(), "")
	require.NoError(t, err)

	assert.Len(t, list.Orders, 2)
	assert.Equal(t, []domain.OrderStatus{""}, gw.statuses)
	snap := h.Snapshot()
	assert.Len(t, snap.Orders, 2)
	assert.Equal(t, 1, snap.StatusCounts[domain.OrderStatusPending])
}

func TestList_GatewayError(t *testing.T) {
	h := NewHistory(&stubGateway{err: domain.ErrSessionExpired}, nil)

	_, err := h.List(context.Background(), domain.OrderStatusPending)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestGet_ReturnsOrder(t *testing.T) {
	gw := &stubGateway{order: &domain.Order{ID: "o-9", Status: domain.OrderStatusDelivered}}
	h := NewHistory(gw, nil)

	order, err := h.Get(context.Background(), "o-9")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, order.Status)

	_, err = h.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApply_UpdatesStatusAndCounts(t *testing.T) {
	h := NewHistory(&stubGateway{list: twoOrders()}, nil)
	_, err := h.List(context.Background(), "")
	require.NoError(t, err)

	changed := h.Apply(statusEvent("o-1", "u-1", domain.OrderStatusShipped))

	assert.True(t, changed)
	snap := h.Snapshot()
	assert.Equal(t, domain.OrderStatusShipped, snap.Orders[0].Status)
	assert.Equal(t, 0, snap.StatusCounts[domain.OrderStatusPending])
	assert.Equal(t, 1, snap.StatusCounts[domain.OrderStatusShipped])
}

func TestApply_IgnoresUnknownAndUnchanged(t *testing.T) {
	h := NewHistory(&stubGateway{list: twoOrders()}, nil)
	_, err := h.List(context.Background(), "")
	require.NoError(t, err)

	assert.False(t, h.Apply(statusEvent("o-404", "u-1", domain.OrderStatusShipped)))
	assert.False(t, h.Apply(statusEvent("o-2", "u-1", domain.OrderStatusProcessing)))
	assert.Equal(t, twoOrders().Orders, h.Snapshot().Orders)
}

func TestApply_DropsOrderLeavingFilter(t *testing.T) {
	gw := &stubGateway{list: &domain.OrderList{
		Orders:       []domain.Order{{ID: "o-1", Status: domain.OrderStatusPending}},
		StatusCounts: map[domain.OrderStatus]int{domain.OrderStatusPending: 1},
	}}
	h := NewHistory(gw, nil)
	_, err := h.List(context.Background(), domain.OrderStatusPending)
	require.NoError(t, err)

	assert.True(t, h.Apply(statusEvent("o-1", "u-1", domain.OrderStatusCancelled)))

	snap := h.Snapshot()
	assert.Empty(t, snap.Orders)
	assert.Equal(t, 1, snap.StatusCounts[domain.OrderStatusCancelled])
}

// chanReader hands out queued messages and then blocks until ctx is done.
type chanReader struct {
	msgs   chan kafka.Message
	mu     sync.Mutex
	closed bool
}

func newChanReader(msgs ...kafka.Message) *chanReader {
	r := &chanReader{msgs: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.msgs <- m
	}
	return r
}

func (r *chanReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *chanReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func encode(t *testing.T, ev events.OrderStatusChanged) kafka.Message {
	t.Helper()
	m, err := events.Encode(ev)
	require.NoError(t, err)
	return m
}

func TestFeed_AppliesOwnEventsOnly(t *testing.T) {
	h := NewHistory(&stubGateway{list: twoOrders()}, nil)
	_, err := h.List(context.Background(), "")
	require.NoError(t, err)

	reader := newChanReader(
		kafka.Message{Value: []byte("garbage")},
		encode(t, statusEvent("o-2", "someone-else", domain.OrderStatusCancelled)),
		encode(t, statusEvent("o-1", "u-1", domain.OrderStatusProcessing)),
		encode(t, statusEvent("o-2", "u-1", domain.OrderStatusShipped)),
	)

	var mu sync.Mutex
	var seen []string
	feed := NewFeed(reader, h, "u-1", func(ev events.OrderStatusChanged) {
		mu.Lock()
		seen = append(seen, ev.OrderID+":"+ev.Status.String())
		mu.Unlock()
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		feed.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done
	feed.Close()

	assert.Equal(t, []string{"o-1:processing", "o-2:shipped"}, seen)
	snap := h.Snapshot()
	assert.Equal(t, domain.OrderStatusProcessing, snap.Orders[0].Status)
	assert.Equal(t, domain.OrderStatusShipped, snap.Orders[1].Status)
	assert.True(t, reader.closed)
}

type errReader struct{ calls int }

func (r *errReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.calls++
	return kafka.Message{}, errors.New("broker unreachable")
}

func (r *errReader) Close() error { return nil }

func TestFeed_ReadErrorDoesNotApply(t *testing.T) {
	h := NewHistory(&stubGateway{list: twoOrders()}, nil)
	reader := &errReader{}
	feed := NewFeed(reader, h, "u-1", nil, nil)

	feed.processMessage(context.Background())

	assert.Equal(t, 1, reader.calls)
	assert.Empty(t, h.Snapshot().Orders)
}
