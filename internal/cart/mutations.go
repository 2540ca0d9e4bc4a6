package cart

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/shopwave/storefront/internal/domain"
)

// SetQuantity changes the quantity of an existing line and resyncs the cart.
// Stock and concurrency checks run before any request is sent.
func (c *Coordinator) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	idx := c.lineIndex(productID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrLineNotFound
	}
	if available := c.lines[idx].AvailableStock; quantity > available {
		c.mu.Unlock()
		return &StockLimitError{ProductID: productID, Requested: quantity, Available: available}
	}
	if err := c.acquire(productID); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()
	defer c.release(productID)

	if err := c.carts.UpdateQuantity(ctx, productID, quantity); err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return err
		}
		c.log.Warn("update quantity failed", slog.String("product_id", productID), slog.Any("err", err))
		return &OperationError{Op: ErrUpdateFailed, Message: userMessage(err, "failed to update item quantity"), Err: err}
	}

	return c.resync(ctx)
}

// AddItem puts quantity units of product into the cart. The product's stock
// bounds the combined quantity of the line.
func (c *Coordinator) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	existing := 0
	if idx := c.lineIndex(product.ID); idx >= 0 {
		existing = c.lines[idx].Quantity
	}
	if existing+quantity > product.Stock {
		c.mu.Unlock()
		return &StockLimitError{ProductID: product.ID, Requested: existing + quantity, Available: product.Stock}
	}
	if err := c.acquire(product.ID); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()
	defer c.release(product.ID)

	if err := c.carts.AddItem(ctx, product.ID, quantity); err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return err
		}
		c.log.Warn("add item failed", slog.String("product_id", product.ID), slog.Any("err", err))
		return &OperationError{Op: ErrAddFailed, Message: userMessage(err, "failed to add item to cart"), Err: err}
	}

	return c.resync(ctx)
}

// RemoveItem deletes a line remotely and resyncs. Removing a product that is
// not in a loaded cart succeeds without a request.
func (c *Coordinator) RemoveItem(ctx context.Context, productID string) error {
	c.mu.Lock()
	if c.loaded && c.lineIndex(productID) < 0 {
		c.mu.Unlock()
		return nil
	}
	if err := c.acquire(productID); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()
	defer c.release(productID)

	err := c.carts.RemoveItem(ctx, productID)
	switch {
	case err == nil, errors.Is(err, domain.ErrNotFound):
	case errors.Is(err, domain.ErrSessionExpired):
		return err
	default:
		c.log.Warn("remove item failed", slog.String("product_id", productID), slog.Any("err", err))
		return &OperationError{Op: ErrRemoveFailed, Message: userMessage(err, "failed to remove item from cart"), Err: err}
	}

	return c.resync(ctx)
}

// RemoveAllItems clears the cart remotely and empties local state without a
// resync round trip.
func (c *Coordinator) RemoveAllItems(ctx context.Context) error {
	c.mu.Lock()
	if len(c.pending) > 0 {
		c.mu.Unlock()
		return ErrOperationInProgress
	}
	c.mu.Unlock()

	if err := c.carts.ClearCart(ctx); err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return err
		}
		c.log.Warn("clear cart failed", slog.Any("err", err))
		return &OperationError{Op: ErrClearFailed, Message: userMessage(err, "failed to remove cart items"), Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = []domain.CartLine{}
	c.total = decimal.Zero
	c.loaded = true
	// snapshots requested before the clear must not bring lines back
	c.applied = c.issued
	return nil
}
