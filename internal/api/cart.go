package api

import (
	"context"
	"net/http"

	"github.com/shopwave/storefront/internal/domain"
)

// GET cart
func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var resp CartDTO
	if err := c.do(ctx, http.MethodGet, "cart", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

// POST cart/items
func (c *Client) AddItem(ctx context.Context, productID string, quantity int) error {
	return c.do(ctx, http.MethodPost, "cart/items", nil, AddItemRequestDTO{
		ProductID: productID,
		Quantity:  quantity,
	}, nil)
}

// PUT cart/items/{productId}
func (c *Client) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	return c.do(ctx, http.MethodPut, "cart/items/"+segment(productID), nil, UpdateQuantityRequestDTO{
		Quantity: quantity,
	}, nil)
}

// DELETE cart/items/{productId}
func (c *Client) RemoveItem(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "cart/items/"+segment(productID), nil, nil, nil)
}

// DELETE cart
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "cart", nil, nil, nil)
}
