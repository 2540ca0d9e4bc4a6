package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopwave/storefront/internal/domain"
)

// POST orders
func (c *Client) CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.OrderSummary, error) {
	var resp OrderDTO
	err := c.do(ctx, http.MethodPost, "orders", nil, CreateOrderRequestDTO{
		ShippingAddress: draft.ShippingAddress,
		PaymentMethod:   string(draft.PaymentMethod),
		Note:            draft.Note,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toSummary(), nil
}

// ListOrders returns the user's orders, filtered by status when it is not empty.
func (c *Client) ListOrders(ctx context.Context, status domain.OrderStatus) (*domain.OrderList, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {string(status)}}
	}
	var resp OrderListDTO
	if err := c.do(ctx, http.MethodGet, "orders", query, nil, &resp); err != nil {
		return nil, err
	}

	list := &domain.OrderList{
		Orders:       make([]domain.Order, 0, len(resp.Orders)),
		StatusCounts: make(map[domain.OrderStatus]int, len(domain.OrderStatuses)),
	}
	for _, s := range domain.OrderStatuses {
		list.StatusCounts[s] = 0
	}
	for k, v := range resp.StatusCounts {
		list.StatusCounts[domain.OrderStatus(k)] = v
	}
	for _, o := range resp.Orders {
		list.Orders = append(list.Orders, o.toDomain())
	}
	return list, nil
}

// GET orders/{id}
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var resp OrderDTO
	if err := c.do(ctx, http.MethodGet, "orders/"+segment(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	order := resp.toDomain()
	return &order, nil
}
