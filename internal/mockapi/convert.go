package mockapi

import (
	"fmt"

	"github.com/shopwave/storefront/internal/api"
	"github.com/shopwave/storefront/internal/domain"
)

func cartToDTO(view CartView) api.CartDTO {
	out := api.CartDTO{Items: make([]api.CartItemDTO, 0, len(view.Lines)), TotalAmount: view.Total}
	for _, l := range view.Lines {
		out.Items = append(out.Items, api.CartItemDTO{
			ID:       l.LineID,
			Product:  api.ProductToDTO(l.Product),
			Quantity: l.Quantity,
			Price:    l.Product.Price,
		})
	}
	return out
}

func orderToDTO(o domain.Order) api.OrderDTO {
	out := api.OrderDTO{
		ID:              o.ID,
		Status:          o.Status.String(),
		TotalAmount:     o.TotalAmount,
		Items:           make([]api.OrderItemDTO, 0, len(o.Items)),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   string(o.PaymentMethod),
		Note:            o.Note,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.CreatedAt,
	}
	for i, item := range o.Items {
		out.Items = append(out.Items, api.OrderItemDTO{
			ID: fmt.Sprintf("%s-%d", o.ID, i),
			Product: api.ProductDTO{
				ID:        item.ProductID,
				Name:      item.Name,
				Thumbnail: item.Thumbnail,
				Price:     item.Price,
			},
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return out
}

func productsToDTO(products []domain.Product) []api.ProductDTO {
	out := make([]api.ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, api.ProductToDTO(p))
	}
	return out
}
