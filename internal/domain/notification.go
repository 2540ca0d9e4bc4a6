package domain

import "time"

type NotificationType string

const (
	NotificationOrder     NotificationType = "order"
	NotificationSystem    NotificationType = "system"
	NotificationPromotion NotificationType = "promotion"
)

// Notification is one entry of the user's in-app inbox.
type Notification struct {
	ID      string
	Type    NotificationType
	Title   string
	Message string
	// OrderID is set for order notifications.
	OrderID   string
	IsRead    bool
	CreatedAt time.Time
}

// NotificationPage is one page of the inbox. Pages counts all pages at the
// time of the request; UnreadCount covers the whole inbox, not just this page.
type NotificationPage struct {
	Notifications []Notification
	Page          int
	Pages         int
	Total         int
	UnreadCount   int
}

// HasMore reports whether a page after this one exists.
func (p NotificationPage) HasMore() bool {
	return p.Page < p.Pages
}
