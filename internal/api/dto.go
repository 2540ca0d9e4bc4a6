package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopwave/storefront/internal/domain"
)

// Wire types of the storefront REST API. Identifiers travel as "_id".

type ProductDTO struct {
	ID            string          `json:"_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	DiscountPrice decimal.Decimal `json:"discountPrice"`
	Thumbnail     string          `json:"thumbnail,omitempty"`
	Images        []string        `json:"images,omitempty"`
	Category      string          `json:"category,omitempty"`
	Stock         int             `json:"stock"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type CategoryDTO struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type CartItemDTO struct {
	ID       string          `json:"_id"`
	Product  ProductDTO      `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type CartDTO struct {
	Items       []CartItemDTO   `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type AddItemRequestDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CreateOrderRequestDTO struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	Note            string                 `json:"note,omitempty"`
}

type OrderItemDTO struct {
	ID       string          `json:"_id"`
	Product  ProductDTO      `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type OrderDTO struct {
	ID              string                 `json:"_id"`
	Status          string                 `json:"status"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	Items           []OrderItemDTO         `json:"items,omitempty"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod,omitempty"`
	Note            string                 `json:"note,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

type OrderListDTO struct {
	Orders       []OrderDTO     `json:"orders"`
	StatusCounts map[string]int `json:"statusCounts"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponseDTO struct {
	Token string `json:"token"`
}

type PushTokenRequestDTO struct {
	FCMToken string `json:"fcmToken"`
}

type NotificationDataDTO struct {
	OrderID string `json:"orderId,omitempty"`
}

type NotificationDTO struct {
	ID        string               `json:"_id"`
	Type      string               `json:"type"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Data      *NotificationDataDTO `json:"data,omitempty"`
	IsRead    bool                 `json:"isRead"`
	CreatedAt time.Time            `json:"createdAt"`
}

type NotificationListDTO struct {
	Notifications []NotificationDTO `json:"notifications"`
	Page          int               `json:"page"`
	Pages         int               `json:"pages"`
	Total         int               `json:"total"`
	UnreadCount   int               `json:"unreadCount"`
}

type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func (p ProductDTO) toDomain() domain.Product {
	return domain.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Thumbnail:     p.Thumbnail,
		Images:        p.Images,
		CategoryID:    p.Category,
		Stock:         p.Stock,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
	}
}

// ProductToDTO converts a catalog product to its wire form.
func ProductToDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Thumbnail:     p.Thumbnail,
		Images:        p.Images,
		Category:      p.CategoryID,
		Stock:         p.Stock,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.CreatedAt,
	}
}

func (c CartDTO) toDomain() *domain.Cart {
	cart := &domain.Cart{
		Lines:       make([]domain.CartLine, 0, len(c.Items)),
		TotalAmount: c.TotalAmount,
	}
	for _, item := range c.Items {
		cart.Lines = append(cart.Lines, domain.CartLine{
			LineID:         item.ID,
			ProductID:      item.Product.ID,
			Name:           item.Product.Name,
			Thumbnail:      item.Product.Thumbnail,
			UnitPrice:      item.Product.Price,
			Quantity:       item.Quantity,
			AvailableStock: item.Product.Stock,
		})
	}
	return cart
}

func (o OrderDTO) toSummary() *domain.OrderSummary {
	return &domain.OrderSummary{
		ID:          o.ID,
		Status:      domain.OrderStatus(o.Status),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
	}
}

func (o OrderDTO) toDomain() domain.Order {
	order := domain.Order{
		ID:              o.ID,
		Status:          domain.OrderStatus(o.Status),
		Items:           make([]domain.OrderItem, 0, len(o.Items)),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   domain.PaymentMethod(o.PaymentMethod),
		Note:            o.Note,
		CreatedAt:       o.CreatedAt,
	}
	for _, item := range o.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Thumbnail: item.Product.Thumbnail,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return order
}

func (n NotificationDTO) toDomain() domain.Notification {
	out := domain.Notification{
		ID:        n.ID,
		Type:      domain.NotificationType(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.Data != nil {
		out.OrderID = n.Data.OrderID
	}
	return out
}

// NotificationToDTO converts an inbox entry to its wire form.
func NotificationToDTO(n domain.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.OrderID != "" {
		dto.Data = &NotificationDataDTO{OrderID: n.OrderID}
	}
	return dto
}
