package cart

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopwave/storefront/internal/domain"
)

// PlaceOrder submits draft for the current cart. The cart is emptied by the
// server as a side effect; callers refetch it after a successful order.
func (c *Coordinator) PlaceOrder(ctx context.Context, draft domain.OrderDraft) (*domain.OrderConfirmation, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.lines) == 0 {
		c.mu.Unlock()
		return nil, ErrEmptyCart
	}
	if c.placing || len(c.pending) > 0 {
		c.mu.Unlock()
		return nil, ErrOperationInProgress
	}
	c.placing = true
	lines := make([]domain.CartLine, len(c.lines))
	copy(lines, c.lines)
	total := c.total
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.placing = false
		c.mu.Unlock()
	}()

	summary, err := c.orders.CreateOrder(ctx, draft)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return nil, err
		}
		c.log.Warn("create order failed", slog.Int("lines", len(lines)), slog.Any("err", err))
		return nil, &OperationError{Op: ErrOrderCreationFailed, Message: userMessage(err, "failed to create order"), Err: err}
	}

	c.log.Info("order placed",
		slog.String("order_id", summary.ID),
		slog.String("status", summary.Status.String()),
		slog.String("total", summary.TotalAmount.String()))

	return &domain.OrderConfirmation{
		Order:     *summary,
		Lines:     lines,
		CartTotal: total,
	}, nil
}
