package mockapi

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopwave/storefront/internal/domain"
)

// Notify appends n to the user's inbox as unread.
func (s *Store) Notify(userID string, n domain.Notification) domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = uuid.NewString()
	n.IsRead = false
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	s.inbox[userID] = append(s.inbox[userID], &n)
	return n
}

// Notifications returns one page of the inbox, newest first. page starts at 1.
func (s *Store) Notifications(userID string, page, limit int) domain.NotificationPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.Notification, 0, len(s.inbox[userID]))
	unread := 0
	for _, n := range s.inbox[userID] {
		all = append(all, *n)
		if !n.IsRead {
			unread++
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	pages := (len(all) + limit - 1) / limit
	out := domain.NotificationPage{
		Notifications: []domain.Notification{},
		Page:          page,
		Pages:         pages,
		Total:         len(all),
		UnreadCount:   unread,
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return out
	}
	end := min(start+limit, len(all))
	out.Notifications = all[start:end]
	return out
}

func (s *Store) MarkNotificationRead(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.inbox[userID] {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return ErrNotificationNotFound
}

// MarkAllNotificationsRead returns how many entries changed.
func (s *Store) MarkAllNotificationsRead(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, n := range s.inbox[userID] {
		if !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed
}
