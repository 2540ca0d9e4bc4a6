// Package notifications keeps the user's in-app inbox: the pages loaded so
// far and the unread count shown on the bell badge.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopwave/storefront/internal/domain"
)

var (
	ErrNoMorePages    = errors.New("no more notifications")
	ErrLoadInProgress = errors.New("notifications are already loading")
)

// Gateway is satisfied by *api.Client.
type Gateway interface {
	Notifications(ctx context.Context, page int) (*domain.NotificationPage, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// State is a read-only copy of the inbox.
type State struct {
	Notifications []domain.Notification
	UnreadCount   int
	HasMore       bool
	Loaded        bool
}

type Inbox struct {
	gw  Gateway
	log *slog.Logger

	mu      sync.Mutex
	items   []domain.Notification
	page    int
	pages   int
	unread  int
	loading bool
	// bumped by Refresh so a LoadMore that started earlier is dropped
	generation uint64
}

func NewInbox(gw Gateway, log *slog.Logger) *Inbox {
	if log == nil {
		log = slog.Default()
	}
	return &Inbox{gw: gw, log: log.With("component", "inbox")}
}

func (i *Inbox) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return State{
		Notifications: append([]domain.Notification(nil), i.items...),
		UnreadCount:   i.unread,
		HasMore:       i.page < i.pages,
		Loaded:        i.page > 0,
	}
}

func (i *Inbox) UnreadCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.unread
}

// Refresh replaces the inbox with its first page.
func (i *Inbox) Refresh(ctx context.Context) error {
	i.mu.Lock()
	i.generation++
	gen := i.generation
	i.mu.Unlock()

	page, err := i.gw.Notifications(ctx, 1)
	if err != nil {
		return fmt.Errorf("load notifications: %w", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if gen != i.generation {
		return nil
	}
	i.items = append([]domain.Notification(nil), page.Notifications...)
	i.page = 1
	i.pages = page.Pages
	i.unread = page.UnreadCount
	return nil
}

// LoadMore appends the next page. Entries already shown are skipped, since
// new notifications shift the server's pages while the user scrolls.
func (i *Inbox) LoadMore(ctx context.Context) error {
	i.mu.Lock()
	if i.loading {
		i.mu.Unlock()
		return ErrLoadInProgress
	}
	if i.page > 0 && i.page >= i.pages {
		i.mu.Unlock()
		return ErrNoMorePages
	}
	i.loading = true
	next := i.page + 1
	gen := i.generation
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.loading = false
		i.mu.Unlock()
	}()

	page, err := i.gw.Notifications(ctx, next)
	if err != nil {
		return fmt.Errorf("load notifications page %d: %w", next, err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if gen != i.generation {
		i.log.Debug("dropping page loaded before refresh", slog.Int("page", next))
		return nil
	}
	seen := make(map[string]struct{}, len(i.items))
	for _, n := range i.items {
		seen[n.ID] = struct{}{}
	}
	for _, n := range page.Notifications {
		if _, dup := seen[n.ID]; !dup {
			i.items = append(i.items, n)
		}
	}
	i.page = next
	i.pages = page.Pages
	i.unread = page.UnreadCount
	return nil
}

// MarkRead marks one entry read. Entries already read locally send nothing.
func (i *Inbox) MarkRead(ctx context.Context, id string) error {
	i.mu.Lock()
	idx := i.index(id)
	if idx >= 0 && i.items[idx].IsRead {
		i.mu.Unlock()
		return nil
	}
	i.mu.Unlock()

	if err := i.gw.MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	// look again, a refresh may have replaced the slice
	if idx = i.index(id); idx >= 0 && !i.items[idx].IsRead {
		i.items[idx].IsRead = true
		if i.unread > 0 {
			i.unread--
		}
	}
	return nil
}

func (i *Inbox) MarkAllRead(ctx context.Context) error {
	if err := i.gw.MarkAllNotificationsRead(ctx); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for idx := range i.items {
		i.items[idx].IsRead = true
	}
	i.unread = 0
	return nil
}

// index must be called with mu held.
func (i *Inbox) index(id string) int {
	for idx := range i.items {
		if i.items[idx].ID == id {
			return idx
		}
	}
	return -1
}
