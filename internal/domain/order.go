package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether an order may move from s to next. Orders
// only move forward; cancelling is possible until the order ships.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() || !next.Valid() || next == s {
		return false
	}
	if next == OrderStatusCancelled {
		return s == OrderStatusPending || s == OrderStatusProcessing
	}
	return statusRank(next) > statusRank(s)
}

func statusRank(s OrderStatus) int {
	for i, known := range OrderStatuses {
		if s == known {
			return i
		}
	}
	return -1
}

func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(v string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", errors.New("unknown order status: " + v)
	}
	return s, nil
}

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentPayPal         PaymentMethod = "paypal"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentPayPal, PaymentCashOnDelivery:
		return true
	}
	return false
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// FreeTextAddress maps a single free-form address line onto the structured shape.
func FreeTextAddress(line string) ShippingAddress {
	return ShippingAddress{Street: strings.TrimSpace(line)}
}

func (a ShippingAddress) IsEmpty() bool {
	return strings.TrimSpace(a.Street) == ""
}

var (
	ErrShippingAddressRequired = errors.New("shipping address is required")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
)

// OrderDraft is the checkout input collected before an order is created.
type OrderDraft struct {
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	Note            string
}

func (d OrderDraft) Validate() error {
	if d.ShippingAddress.IsEmpty() {
		return ErrShippingAddressRequired
	}
	if !d.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}

// OrderSummary is what the backend returns right after creating an order.
type OrderSummary struct {
	ID          string
	Status      OrderStatus
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

// OrderConfirmation pairs the created order with the cart it was placed from.
type OrderConfirmation struct {
	Order     OrderSummary
	Lines     []CartLine
	CartTotal decimal.Decimal
}

type OrderItem struct {
	ProductID string
	Name      string
	Thumbnail string
	Price     decimal.Decimal
	Quantity  int
}

type Order struct {
	ID              string
	Status          OrderStatus
	Items           []OrderItem
	TotalAmount     decimal.Decimal
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	Note            string
	CreatedAt       time.Time
}

// OrderList is one page of order history with per-status counts.
type OrderList struct {
	Orders       []Order
	StatusCounts map[OrderStatus]int
}
