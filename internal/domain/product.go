package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	DiscountPrice decimal.Decimal `json:"discountPrice"`
	Thumbnail     string          `json:"thumbnail,omitempty"`
	Images        []string        `json:"images,omitempty"`
	CategoryID    string          `json:"category,omitempty"`
	Stock         int             `json:"stock"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// InStock reports whether at least one unit can be added to a cart.
func (p Product) InStock() bool {
	return p.IsActive && p.Stock > 0
}

// UserProfile is the authenticated user's profile.
type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
