package cart

import (
	"context"

	"github.com/shopwave/storefront/internal/domain"
)

// CartGateway defines the remote cart calls the coordinator needs.
// Consumers define this interface, not the HTTP implementation
type CartGateway interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddItem(ctx context.Context, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, productID string, quantity int) error
	RemoveItem(ctx context.Context, productID string) error
	ClearCart(ctx context.Context) error
}

// OrderGateway creates orders from the server-side cart.
type OrderGateway interface {
	CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.OrderSummary, error)
}
