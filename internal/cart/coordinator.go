package cart

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/shopwave/storefront/internal/domain"
)

// Coordinator owns the session's cart state. UI code reads it through State
// and changes it only through the coordinator's operations.
type Coordinator struct {
	carts  CartGateway
	orders OrderGateway
	log    *slog.Logger

	mu      sync.Mutex
	lines   []domain.CartLine
	total   decimal.Decimal
	loaded  bool
	pending map[string]struct{}
	placing bool

	// issued is bumped for every resync request, applied holds the generation of
	// the snapshot currently in lines. Older snapshots are dropped.
	issued  uint64
	applied uint64
}

func NewCoordinator(carts CartGateway, orders OrderGateway, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		carts:   carts,
		orders:  orders,
		log:     log.With("component", "cart"),
		pending: make(map[string]struct{}),
	}
}

// State returns a copy of the current cart.
func (c *Coordinator) State() domain.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]domain.CartLine, len(c.lines))
	copy(lines, c.lines)

	pending := make([]string, 0, len(c.pending))
	for id := range c.pending {
		pending = append(pending, id)
	}
	sort.Strings(pending)

	return domain.CartState{
		Lines:       lines,
		TotalAmount: c.total,
		Pending:     pending,
		Loaded:      c.loaded,
	}
}

// Reset drops all local state. Call it when the session ends.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.total = decimal.Zero
	c.loaded = false
	c.applied = c.issued
}

// FetchCart replaces local state with the server's cart. On failure local
// state is left as it was.
func (c *Coordinator) FetchCart(ctx context.Context) error {
	return c.resync(ctx)
}

func (c *Coordinator) resync(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	gen := c.issued
	c.mu.Unlock()

	remote, err := c.carts.GetCart(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return err
		}
		c.log.Warn("fetch cart failed", slog.Any("err", err))
		return &OperationError{Op: ErrFetchFailed, Message: userMessage(err, "failed to fetch cart items"), Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen <= c.applied {
		c.log.Debug("dropping stale cart snapshot", slog.Uint64("generation", gen), slog.Uint64("applied", c.applied))
		return nil
	}
	c.apply(remote)
	c.applied = gen
	return nil
}

// apply must be called with mu held.
func (c *Coordinator) apply(remote *domain.Cart) {
	lines := make([]domain.CartLine, len(remote.Lines))
	copy(lines, remote.Lines)

	total := domain.SumLines(lines)
	if !remote.TotalAmount.Equal(total) {
		c.log.Warn("server total differs from line sum",
			slog.String("server_total", remote.TotalAmount.String()),
			slog.String("line_total", total.String()))
	}

	c.lines = lines
	c.total = total
	c.loaded = true
}

// lineIndex must be called with mu held.
func (c *Coordinator) lineIndex(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// acquire marks productID pending. It must be called with mu held.
func (c *Coordinator) acquire(productID string) error {
	if _, busy := c.pending[productID]; busy {
		return ErrOperationInProgress
	}
	c.pending[productID] = struct{}{}
	return nil
}

func (c *Coordinator) release(productID string) {
	c.mu.Lock()
	delete(c.pending, productID)
	c.mu.Unlock()
}

type userMessager interface {
	UserMessage() string
}

func userMessage(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return fallback
}
