package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/shopwave/storefront/internal/domain"
)

// mockCartGateway keeps a server-side cart in memory and records every call.
type mockCartGateway struct {
	m     sync.Mutex
	cart  domain.Cart
	calls []string

	getErr    error
	addErr    error
	updateErr error
	removeErr error
	clearErr  error

	// when set, UpdateQuantity / GetCart signal started and wait for release
	updateStarted chan string
	updateRelease chan struct{}
	getStarted    chan struct{}
	getRelease    chan struct{}

	inFlight    map[string]int
	maxInFlight map[string]int
}

func newMockCartGateway(lines ...domain.CartLine) *mockCartGateway {
	g := &mockCartGateway{
		inFlight:    make(map[string]int),
		maxInFlight: make(map[string]int),
	}
	g.cart.Lines = append(g.cart.Lines, lines...)
	g.cart.TotalAmount = domain.SumLines(g.cart.Lines)
	return g
}

func (g *mockCartGateway) record(call string) {
	g.m.Lock()
	defer g.m.Unlock()
	g.calls = append(g.calls, call)
}

func (g *mockCartGateway) getCalls() []string {
	g.m.Lock()
	defer g.m.Unlock()
	out := make([]string, len(g.calls))
	copy(out, g.calls)
	return out
}

func (g *mockCartGateway) resetCalls() {
	g.m.Lock()
	defer g.m.Unlock()
	g.calls = nil
}

func (g *mockCartGateway) snapshot() *domain.Cart {
	lines := make([]domain.CartLine, len(g.cart.Lines))
	copy(lines, g.cart.Lines)
	return &domain.Cart{Lines: lines, TotalAmount: g.cart.TotalAmount}
}

func (g *mockCartGateway) GetCart(context.Context) (*domain.Cart, error) {
	g.record("GET cart")
	g.m.Lock()
	snap := g.snapshot()
	err := g.getErr
	started, release := g.getStarted, g.getRelease
	g.m.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (g *mockCartGateway) AddItem(_ context.Context, productID string, quantity int) error {
	g.record(fmt.Sprintf("POST cart/items %s %d", productID, quantity))
	g.m.Lock()
	defer g.m.Unlock()
	if g.addErr != nil {
		return g.addErr
	}
	for i := range g.cart.Lines {
		if g.cart.Lines[i].ProductID == productID {
			g.cart.Lines[i].Quantity += quantity
			g.cart.TotalAmount = domain.SumLines(g.cart.Lines)
			return nil
		}
	}
	g.cart.Lines = append(g.cart.Lines, domain.CartLine{
		LineID:         "line-" + productID,
		ProductID:      productID,
		UnitPrice:      decimal.NewFromInt(1),
		Quantity:       quantity,
		AvailableStock: 100,
	})
	g.cart.TotalAmount = domain.SumLines(g.cart.Lines)
	return nil
}

func (g *mockCartGateway) UpdateQuantity(_ context.Context, productID string, quantity int) error {
	g.record(fmt.Sprintf("PUT cart/items/%s %d", productID, quantity))

	g.m.Lock()
	g.inFlight[productID]++
	if g.inFlight[productID] > g.maxInFlight[productID] {
		g.maxInFlight[productID] = g.inFlight[productID]
	}
	started, release := g.updateStarted, g.updateRelease
	g.m.Unlock()

	if started != nil {
		started <- productID
		<-release
	}

	g.m.Lock()
	defer g.m.Unlock()
	g.inFlight[productID]--
	if g.updateErr != nil {
		return g.updateErr
	}
	for i := range g.cart.Lines {
		if g.cart.Lines[i].ProductID == productID {
			g.cart.Lines[i].Quantity = quantity
			g.cart.TotalAmount = domain.SumLines(g.cart.Lines)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (g *mockCartGateway) RemoveItem(_ context.Context, productID string) error {
	g.record("DELETE cart/items/" + productID)
	g.m.Lock()
	defer g.m.Unlock()
	if g.removeErr != nil {
		return g.removeErr
	}
	for i := range g.cart.Lines {
		if g.cart.Lines[i].ProductID == productID {
			g.cart.Lines = append(g.cart.Lines[:i], g.cart.Lines[i+1:]...)
			g.cart.TotalAmount = domain.SumLines(g.cart.Lines)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (g *mockCartGateway) ClearCart(context.Context) error {
	g.record("DELETE cart")
	g.m.Lock()
	defer g.m.Unlock()
	if g.clearErr != nil {
		return g.clearErr
	}
	g.cart.Lines = nil
	g.cart.TotalAmount = decimal.Zero
	return nil
}

type mockOrderGateway struct {
	m       sync.Mutex
	summary *domain.OrderSummary
	err     error
	drafts  []domain.OrderDraft
}

func (g *mockOrderGateway) CreateOrder(_ context.Context, draft domain.OrderDraft) (*domain.OrderSummary, error) {
	g.m.Lock()
	defer g.m.Unlock()
	g.drafts = append(g.drafts, draft)
	if g.err != nil {
		return nil, g.err
	}
	return g.summary, nil
}

func (g *mockOrderGateway) calls() int {
	g.m.Lock()
	defer g.m.Unlock()
	return len(g.drafts)
}

// serverError mimics a transport error carrying a backend message.
type serverError struct {
	msg string
}

func (e serverError) Error() string       { return "server error: " + e.msg }
func (e serverError) UserMessage() string { return e.msg }
