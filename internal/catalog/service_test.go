package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopwave/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	mu       sync.Mutex
	products map[string]domain.Product
	calls    map[string]int
	err      error
	topErr   error

	productStarted chan struct{}
	productRelease chan struct{}
}

func newStubGateway(products ...domain.Product) *stubGateway {
	gw := &stubGateway{products: map[string]domain.Product{}, calls: map[string]int{}}
	for _, p := range products {
		gw.products[p.ID] = p
	}
	return gw
}

func (g *stubGateway) count(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

func (g *stubGateway) record(name string) {
	g.mu.Lock()
	g.calls[name]++
	g.mu.Unlock()
}

func (g *stubGateway) Categories(context.Context) ([]domain.Category, error) {
	g.record("categories")
	if g.err != nil {
		return nil, g.err
	}
	return []domain.Category{{ID: "c1", Name: "Hoodies"}}, nil
}

func (g *stubGateway) Product(_ context.Context, id string) (*domain.Product, error) {
	g.record("product")
	if g.productStarted != nil {
		g.productStarted <- struct{}{}
		<-g.productRelease
	}
	if g.err != nil {
		return nil, g.err
	}
	p, ok := g.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (g *stubGateway) ProductsByCategory(_ context.Context, categoryID string) ([]domain.Product, error) {
	g.record("by-category")
	var out []domain.Product
	for _, p := range g.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (g *stubGateway) NewProducts(_ context.Context, limit int) ([]domain.Product, error) {
	g.record("new")
	return []domain.Product{{ID: "new-1", Stock: limit}}, nil
}

func (g *stubGateway) TopSellingProducts(_ context.Context, limit int) ([]domain.Product, error) {
	g.record("top")
	if g.topErr != nil {
		return nil, g.topErr
	}
	return []domain.Product{{ID: "top-1", Stock: limit}}, nil
}

type memCache struct {
	mu     sync.Mutex
	items  map[string]domain.Product
	getErr error
}

func newMemCache() *memCache {
	return &memCache{items: map[string]domain.Product{}}
}

func (c *memCache) Get(_ context.Context, id string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	p, ok := c.items[id]
	if !ok {
		return nil, ErrCacheMiss
	}
	return &p, nil
}

func (c *memCache) Set(_ context.Context, p *domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[p.ID] = *p
	return nil
}

func (c *memCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	return nil
}

func hoodie() domain.Product {
	return domain.Product{ID: "p1", Name: "Blue Hoodie", Price: decimal.NewFromInt(10), Stock: 5, IsActive: true, CategoryID: "c1"}
}

func TestProduct_CacheMissFillsCache(t *testing.T) {
	gw := newStubGateway(hoodie())
	cache := newMemCache()
	svc := NewService(gw, cache, nil)

	p, err := svc.Product(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Blue Hoodie", p.Name)

	_, err = svc.Product(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, 1, gw.count("product"))
	assert.Contains(t, cache.items, "p1")
}

func TestProduct_CacheErrorFallsBackToGateway(t *testing.T) {
	gw := newStubGateway(hoodie())
	cache := newMemCache()
	cache.getErr = errors.New("connection refused")
	svc := NewService(gw, cache, nil)

	p, err := svc.Product(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, 1, gw.count("product"))
}

func TestProduct_WithoutCache(t *testing.T) {
	gw := newStubGateway(hoodie())
	svc := NewService(gw, nil, nil)

	_, err := svc.Product(context.Background(), "p1")
	require.NoError(t, err)
	_, err = svc.Product(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, 2, gw.count("product"))
}

func TestProduct_NotFound(t *testing.T) {
	svc := NewService(newStubGateway(), newMemCache(), nil)

	_, err := svc.Product(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_ConcurrentReadsShareOneRequest(t *testing.T) {
	gw := newStubGateway(hoodie())
	gw.productStarted = make(chan struct{}, 1)
	gw.productRelease = make(chan struct{})
	svc := NewService(gw, nil, nil)

	const readers = 8
	var wg sync.WaitGroup
	results := make([]*domain.Product, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.Product(context.Background(), "p1")
			assert.NoError(t, err)
			results[i] = p
		}(i)
	}

	<-gw.productStarted
	time.Sleep(100 * time.Millisecond)
	close(gw.productRelease)
	wg.Wait()

	assert.Equal(t, 1, gw.count("product"))
	for _, p := range results {
		require.NotNil(t, p)
		assert.Equal(t, "p1", p.ID)
	}
	// callers get independent copies
	results[0].Name = "changed"
	assert.Equal(t, "Blue Hoodie", results[1].Name)
}

func TestForget_DropsCachedProduct(t *testing.T) {
	gw := newStubGateway(hoodie())
	cache := newMemCache()
	svc := NewService(gw, cache, nil)
	ctx := context.Background()

	_, err := svc.Product(ctx, "p1")
	require.NoError(t, err)
	svc.Forget(ctx, "p1")
	_, err = svc.Product(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, 2, gw.count("product"))
}

func TestHome_LoadsAllLists(t *testing.T) {
	gw := newStubGateway()
	svc := NewService(gw, nil, nil)

	home, err := svc.Home(context.Background())
	require.NoError(t, err)

	assert.Len(t, home.Categories, 1)
	require.Len(t, home.NewArrivals, 1)
	require.Len(t, home.TopSelling, 1)
	assert.Equal(t, homeListLimit, home.NewArrivals[0].Stock)
	assert.Equal(t, "top-1", home.TopSelling[0].ID)
}

func TestHome_OneFailureFailsScreen(t *testing.T) {
	gw := newStubGateway()
	gw.topErr = domain.ErrSessionExpired
	svc := NewService(gw, nil, nil)

	home, err := svc.Home(context.Background())
	assert.Nil(t, home)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestProductsByCategory_PassesThrough(t *testing.T) {
	other := domain.Product{ID: "p2", CategoryID: "c2"}
	gw := newStubGateway(hoodie(), other)
	svc := NewService(gw, nil, nil)

	products, err := svc.ProductsByCategory(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}
