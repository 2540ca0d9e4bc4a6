package mockapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopwave/storefront/internal/domain"
)

// Common errors returned by the store
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("not enough stock available")
	ErrItemNotFound      = errors.New("item not found in cart")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidTransition = errors.New("order status cannot change")

	ErrNotificationNotFound = errors.New("notification not found")
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	PushToken    string
	Admin        bool
}

type cartEntry struct {
	lineID    string
	productID string
	quantity  int
}

// CartView is a user's cart joined with current product data.
type CartView struct {
	Lines []CartViewLine
	Total decimal.Decimal
}

type CartViewLine struct {
	LineID   string
	Product  domain.Product
	Quantity int
}

type storedOrder struct {
	order  domain.Order
	userID string
}

// Store is the mock backend's in-memory state.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*User       // userID -> user
	emails     map[string]string      // lower-cased email -> userID
	categories []domain.Category      // insertion order
	products   map[string]*domain.Product
	sold       map[string]int         // productID -> units ordered
	carts      map[string][]cartEntry // userID -> cart
	orders     map[string]*storedOrder
	inbox      map[string][]*domain.Notification // userID -> oldest first
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*User),
		emails:   make(map[string]string),
		products: make(map[string]*domain.Product),
		sold:     make(map[string]int),
		carts:    make(map[string][]cartEntry),
		orders:   make(map[string]*storedOrder),
		inbox:    make(map[string][]*domain.Notification),
		now:      time.Now,
	}
}

func (s *Store) CreateUser(name, email string, passwordHash []byte) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(email))
	if _, taken := s.emails[key]; taken {
		return nil, ErrEmailTaken
	}
	u := &User{ID: uuid.NewString(), Name: name, Email: key, PasswordHash: passwordHash}
	s.users[u.ID] = u
	s.emails[key] = u.ID
	cp := *u
	return &cp, nil
}

func (s *Store) UserByEmail(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *Store) User(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) SetPushToken(userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PushToken = token
	return nil
}

// SetAdmin grants or revokes access to the admin routes.
func (s *Store) SetAdmin(userID string, admin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Admin = admin
	return nil
}

func (s *Store) AddCategory(c domain.Category) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.categories = append(s.categories, c)
	return c
}

// PutProduct inserts or replaces a product. It is also how tests set stock.
func (s *Store) PutProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.products[p.ID] = &p
	return p
}

func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories...)
}

func (s *Store) Product(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	return *p, nil
}

func (s *Store) ProductsByCategory(categoryID string) []domain.Product {
	return s.listProducts(func(p *domain.Product) bool { return p.CategoryID == categoryID }, byName, 0)
}

// NewProducts returns the newest active products first.
func (s *Store) NewProducts(limit int) []domain.Product {
	return s.listProducts(nil, func(a, b domain.Product, _ map[string]int) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.Name < b.Name
		}
		return a.CreatedAt.After(b.CreatedAt)
	}, limit)
}

// TopSelling ranks active products by units ordered.
func (s *Store) TopSelling(limit int) []domain.Product {
	return s.listProducts(nil, func(a, b domain.Product, sold map[string]int) bool {
		if sold[a.ID] == sold[b.ID] {
			return a.Name < b.Name
		}
		return sold[a.ID] > sold[b.ID]
	}, limit)
}

func byName(a, b domain.Product, _ map[string]int) bool { return a.Name < b.Name }

func (s *Store) listProducts(keep func(*domain.Product) bool, less func(a, b domain.Product, sold map[string]int) bool, limit int) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if !p.IsActive || (keep != nil && !keep(p)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j], s.sold) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) Cart(userID string) CartView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartView(userID)
}

func (s *Store) cartView(userID string) CartView {
	view := CartView{Lines: []CartViewLine{}, Total: decimal.Zero}
	for _, e := range s.carts[userID] {
		p, ok := s.products[e.productID]
		if !ok {
			continue
		}
		view.Lines = append(view.Lines, CartViewLine{LineID: e.lineID, Product: *p, Quantity: e.quantity})
		view.Total = view.Total.Add(p.Price.Mul(decimal.NewFromInt(int64(e.quantity))))
	}
	return view
}

// AddItem adds quantity units, merging with an existing line.
func (s *Store) AddItem(userID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok || !p.IsActive {
		return ErrProductNotFound
	}

	cart := s.carts[userID]
	for i := range cart {
		if cart[i].productID == productID {
			if cart[i].quantity+quantity > p.Stock {
				return ErrInsufficientStock
			}
			cart[i].quantity += quantity
			return nil
		}
	}
	if quantity > p.Stock {
		return ErrInsufficientStock
	}
	s.carts[userID] = append(cart, cartEntry{lineID: uuid.NewString(), productID: productID, quantity: quantity})
	return nil
}

func (s *Store) UpdateQuantity(userID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	for i := range cart {
		if cart[i].productID != productID {
			continue
		}
		if p := s.products[productID]; p == nil || quantity > p.Stock {
			return ErrInsufficientStock
		}
		cart[i].quantity = quantity
		return nil
	}
	return ErrItemNotFound
}

func (s *Store) RemoveItem(userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	for i := range cart {
		if cart[i].productID == productID {
			s.carts[userID] = append(cart[:i], cart[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (s *Store) ClearCart(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// CreateOrder turns the user's cart into a pending order, deducting stock
// and emptying the cart.
func (s *Store) CreateOrder(userID string, draft domain.OrderDraft) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	if len(cart) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	// First pass: validate all lines still fit the stock
	for _, e := range cart {
		p, ok := s.products[e.productID]
		if !ok {
			return domain.Order{}, ErrProductNotFound
		}
		if e.quantity > p.Stock {
			return domain.Order{}, ErrInsufficientStock
		}
	}

	now := s.now()
	order := domain.Order{
		ID:              uuid.NewString(),
		Status:          domain.OrderStatusPending,
		Items:           make([]domain.OrderItem, 0, len(cart)),
		TotalAmount:     decimal.Zero,
		ShippingAddress: draft.ShippingAddress,
		PaymentMethod:   draft.PaymentMethod,
		Note:            draft.Note,
		CreatedAt:       now,
	}
	// Second pass: deduct stock
	for _, e := range cart {
		p := s.products[e.productID]
		p.Stock -= e.quantity
		s.sold[p.ID] += e.quantity
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Thumbnail: p.Thumbnail,
			Price:     p.Price,
			Quantity:  e.quantity,
		})
		order.TotalAmount = order.TotalAmount.Add(p.Price.Mul(decimal.NewFromInt(int64(e.quantity))))
	}

	s.orders[order.ID] = &storedOrder{order: order, userID: userID}
	delete(s.carts, userID)
	return order, nil
}

// Orders lists a user's orders newest first, filtered by status when set.
// Counts always cover every order of the user.
func (s *Store) Orders(userID string, status domain.OrderStatus) ([]domain.Order, map[domain.OrderStatus]int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.OrderStatus]int, len(domain.OrderStatuses))
	for _, st := range domain.OrderStatuses {
		counts[st] = 0
	}
	var out []domain.Order
	for _, o := range s.orders {
		if o.userID != userID {
			continue
		}
		counts[o.order.Status]++
		if status == "" || o.order.Status == status {
			out = append(out, o.order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, counts
}

func (s *Store) Order(userID, orderID string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[orderID]
	if !ok || o.userID != userID {
		return domain.Order{}, ErrOrderNotFound
	}
	return o.order, nil
}

// SetOrderStatus moves an order forward along its lifecycle and returns the
// owner's id. Cancelling returns stock.
func (s *Store) SetOrderStatus(orderID string, status domain.OrderStatus) (domain.Order, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, "", ErrOrderNotFound
	}
	if !o.order.Status.CanTransitionTo(status) {
		return domain.Order{}, "", ErrInvalidTransition
	}

	if status == domain.OrderStatusCancelled {
		for _, item := range o.order.Items {
			if p, ok := s.products[item.ProductID]; ok {
				p.Stock += item.Quantity
				s.sold[p.ID] -= item.Quantity
			}
		}
	}
	o.order.Status = status
	return o.order, o.userID, nil
}
