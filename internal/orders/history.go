// Package orders keeps the user's order history and follows status changes.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopwave/storefront/internal/domain"
	"github.com/shopwave/storefront/internal/events"
)

var ErrInvalidStatus = errors.New("invalid order status filter")

type Gateway interface {
	ListOrders(ctx context.Context, status domain.OrderStatus) (*domain.OrderList, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}

// History is the order list screen's state. It remembers the last list it
// loaded so status events can be applied without a refetch.
type History struct {
	gw  Gateway
	log *slog.Logger

	mu     sync.RWMutex
	orders []domain.Order
	counts map[domain.OrderStatus]int
	filter domain.OrderStatus
}

func NewHistory(gw Gateway, log *slog.Logger) *History {
	if log == nil {
		log = slog.Default()
	}
	return &History{
		gw:     gw,
		log:    log.With("component", "orders"),
		counts: map[domain.OrderStatus]int{},
	}
}

// List loads the orders with the given status, or all orders when status is
// empty.
func (h *History) List(ctx context.Context, status domain.OrderStatus) (*domain.OrderList, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	list, err := h.gw.ListOrders(ctx, status)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.orders = append([]domain.Order(nil), list.Orders...)
	h.counts = make(map[domain.OrderStatus]int, len(list.StatusCounts))
	for k, v := range list.StatusCounts {
		h.counts[k] = v
	}
	h.filter = status
	h.mu.Unlock()

	return list, nil
}

func (h *History) Get(ctx context.Context, id string) (*domain.Order, error) {
	return h.gw.GetOrder(ctx, id)
}

// Snapshot returns the last loaded list with any applied status changes.
func (h *History) Snapshot() domain.OrderList {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := domain.OrderList{
		Orders:       append([]domain.Order(nil), h.orders...),
		StatusCounts: make(map[domain.OrderStatus]int, len(h.counts)),
	}
	for k, v := range h.counts {
		out.StatusCounts[k] = v
	}
	return out
}

// Apply moves a tracked order to the event's status and reports whether it
// changed anything. Orders that no longer match the active filter drop out
// of the list.
func (h *History) Apply(ev events.OrderStatusChanged) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.orders {
		if h.orders[i].ID != ev.OrderID {
			continue
		}
		prev := h.orders[i].Status
		if prev == ev.Status {
			return false
		}
		if h.counts[prev] > 0 {
			h.counts[prev]--
		}
		h.counts[ev.Status]++

		if h.filter != "" && h.filter != ev.Status {
			h.orders = append(h.orders[:i], h.orders[i+1:]...)
		} else {
			h.orders[i].Status = ev.Status
		}
		h.log.Info("order status changed",
			slog.String("order_id", ev.OrderID),
			slog.String("from", prev.String()),
			slog.String("to", ev.Status.String()),
		)
		return true
	}
	return false
}
