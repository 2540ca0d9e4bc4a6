package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopwave/storefront/internal/domain"
)

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var resp []CategoryDTO
	if err := c.do(ctx, http.MethodGet, "categories", nil, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(resp))
	for _, cat := range resp {
		out = append(out, domain.Category{ID: cat.ID, Name: cat.Name, Image: cat.Image})
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	var resp ProductDTO
	if err := c.do(ctx, http.MethodGet, "products/"+segment(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	p := resp.toDomain()
	return &p, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return c.products(ctx, "products/category/"+segment(categoryID), nil)
}

func (c *Client) NewProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	return c.products(ctx, "products/new", limitQuery(limit))
}

func (c *Client) TopSellingProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	return c.products(ctx, "products/top-selling", limitQuery(limit))
}

func (c *Client) products(ctx context.Context, path string, query url.Values) ([]domain.Product, error) {
	var resp []ProductDTO
	if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(resp))
	for _, p := range resp {
		out = append(out, p.toDomain())
	}
	return out, nil
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}
