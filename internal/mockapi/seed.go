package mockapi

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopwave/storefront/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// SeedCatalog fills the store with a small demo catalog.
func SeedCatalog(s *Store) {
	apparel := s.AddCategory(domain.Category{ID: "cat-apparel", Name: "Apparel"})
	accessories := s.AddCategory(domain.Category{ID: "cat-accessories", Name: "Accessories"})

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []domain.Product{
		{ID: "prod-hoodie", Name: "Blue Hoodie", Price: decimal.RequireFromString("49.90"), Stock: 12, CategoryID: apparel.ID},
		{ID: "prod-tee", Name: "Logo Tee", Price: decimal.RequireFromString("19.00"), Stock: 40, CategoryID: apparel.ID},
		{ID: "prod-cap", Name: "Canvas Cap", Price: decimal.RequireFromString("15.50"), Stock: 3, CategoryID: accessories.ID},
		{ID: "prod-bottle", Name: "Steel Bottle", Price: decimal.RequireFromString("24.00"), Stock: 0, CategoryID: accessories.ID},
	}
	for i, p := range products {
		p.IsActive = true
		p.Description = p.Name + " from the demo catalog"
		p.CreatedAt = base.Add(time.Duration(i) * 24 * time.Hour)
		s.PutProduct(p)
	}
}

// SeedUser registers a user with a bcrypt-hashed password.
func SeedUser(s *Store, name, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.CreateUser(name, email, hash)
}

// SeedAdmin registers a user allowed to call the admin routes.
func SeedAdmin(s *Store, name, email, password string) (*User, error) {
	u, err := SeedUser(s, name, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.SetAdmin(u.ID, true); err != nil {
		return nil, err
	}
	u.Admin = true
	return u, nil
}
