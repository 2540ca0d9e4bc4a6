// Package catalog serves product browsing: categories, product details and
// the home screen lists.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopwave/storefront/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// homeListLimit is how many products each home screen list shows.
const homeListLimit = 10

// Gateway is the subset of the API client the catalog needs.
type Gateway interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	NewProducts(ctx context.Context, limit int) ([]domain.Product, error)
	TopSellingProducts(ctx context.Context, limit int) ([]domain.Product, error)
}

type Home struct {
	Categories  []domain.Category
	NewArrivals []domain.Product
	TopSelling  []domain.Product
}

type Service struct {
	gw    Gateway
	cache ProductCache
	log   *slog.Logger
	sfg   singleflight.Group
}

// NewService builds a catalog service. cache may be nil.
func NewService(gw Gateway, cache ProductCache, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		gw:    gw,
		cache: cache,
		log:   log.With("component", "catalog"),
	}
}

// Product returns one product. Concurrent calls for the same id share a
// single backend request.
func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(id, func() (any, error) {
		if s.cache != nil {
			p, err := s.cache.Get(ctx, id)
			if err == nil {
				return p, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				s.log.Warn("cache get failed", slog.String("product_id", id), slog.Any("err", err))
			}
		}

		p, err := s.gw.Product(ctx, id)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			if err := s.cache.Set(ctx, p); err != nil {
				s.log.Warn("cache set failed", slog.String("product_id", id), slog.Any("err", err))
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	p := *v.(*domain.Product)
	return &p, nil
}

// Forget drops a cached product so the next read sees fresh stock.
func (s *Service) Forget(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn("cache delete failed", slog.String("product_id", id), slog.Any("err", err))
	}
}

// Home loads the three home screen lists concurrently. Any failure fails
// the whole screen.
func (s *Service) Home(ctx context.Context) (*Home, error) {
	var home Home
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cats, err := s.gw.Categories(gctx)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		home.Categories = cats
		return nil
	})
	g.Go(func() error {
		products, err := s.gw.NewProducts(gctx, homeListLimit)
		if err != nil {
			return fmt.Errorf("new products: %w", err)
		}
		home.NewArrivals = products
		return nil
	})
	g.Go(func() error {
		products, err := s.gw.TopSellingProducts(gctx, homeListLimit)
		if err != nil {
			return fmt.Errorf("top selling products: %w", err)
		}
		home.TopSelling = products
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &home, nil
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.gw.Categories(ctx)
}

func (s *Service) ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return s.gw.ProductsByCategory(ctx, categoryID)
}
