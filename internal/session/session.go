// Package session owns the bearer token used by the API client and tells
// the rest of the app when the backend stops accepting it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopwave/storefront/internal/domain"
)

type Session struct {
	store TokenStore
	log   *slog.Logger
	now   func() time.Time

	mu    sync.Mutex
	hooks []func()

	// serializes Load+Delete in Invalidate
	invalidateMu sync.Mutex
}

func New(store TokenStore, log *slog.Logger) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		store: store,
		log:   log.With("component", "session"),
		now:   time.Now,
	}
}

// OnExpired registers fn to run each time a stored token is invalidated.
func (s *Session) OnExpired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Token returns the stored token. It fails with domain.ErrNotAuthenticated
// when nobody is logged in and domain.ErrSessionExpired when the token's exp
// claim has passed.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, err := s.store.Load(ctx)
	if errors.Is(err, ErrNoToken) {
		return "", domain.ErrNotAuthenticated
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}

	exp, ok := expiry(token)
	if ok && !s.now().Before(exp) {
		s.log.Info("stored token expired", slog.Time("exp", exp))
		if err := s.Invalidate(ctx); err != nil {
			return "", err
		}
		return "", domain.ErrSessionExpired
	}
	return token, nil
}

func (s *Session) Start(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	exp, _ := expiry(token)
	if err := s.store.Save(ctx, token, exp); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.log.Info("session started")
	return nil
}

// End logs out. Unlike Invalidate it does not fire the expiry hooks.
func (s *Session) End(ctx context.Context) error {
	if err := s.store.Delete(ctx); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	s.log.Info("session ended")
	return nil
}

// Invalidate drops the token after the backend rejected it and runs the
// OnExpired hooks. Concurrent calls for the same token fire the hooks once;
// a call with nothing stored is a no-op.
func (s *Session) Invalidate(ctx context.Context) error {
	s.invalidateMu.Lock()
	_, err := s.store.Load(ctx)
	if errors.Is(err, ErrNoToken) {
		s.invalidateMu.Unlock()
		s.log.Debug("session already invalidated")
		return nil
	}
	if err := s.store.Delete(ctx); err != nil {
		s.invalidateMu.Unlock()
		return fmt.Errorf("delete token: %w", err)
	}
	s.invalidateMu.Unlock()

	s.mu.Lock()
	hooks := make([]func(), len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	s.log.Warn("session invalidated")
	for _, fn := range hooks {
		fn()
	}
	return nil
}

// expiry reads the exp claim without verifying the signature; only the
// backend holds the key.
func expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
