package domain

import (
	"github.com/shopspring/decimal"
)

// CartLine is one product line in the authenticated user's cart.
type CartLine struct {
	LineID         string
	ProductID      string
	Name           string
	Thumbnail      string
	UnitPrice      decimal.Decimal
	Quantity       int
	AvailableStock int
}

// Subtotal returns UnitPrice × Quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the server's view of a cart as returned by GET cart.
type Cart struct {
	Lines       []CartLine
	TotalAmount decimal.Decimal
}

// CartState is a read-only snapshot of the coordinator's cart.
type CartState struct {
	Lines       []CartLine
	TotalAmount decimal.Decimal
	Pending     []string
	Loaded      bool
}

// Line returns the line holding productID.
func (s CartState) Line(productID string) (CartLine, bool) {
	for _, l := range s.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

// IsPending reports whether a mutation for productID is in flight.
func (s CartState) IsPending(productID string) bool {
	for _, id := range s.Pending {
		if id == productID {
			return true
		}
	}
	return false
}

// SumLines returns Σ UnitPrice × Quantity over lines.
func SumLines(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
