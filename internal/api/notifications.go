package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopwave/storefront/internal/domain"
)

// Notifications fetches one page of the inbox. Pages start at 1.
func (c *Client) Notifications(ctx context.Context, page int) (*domain.NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	var resp NotificationListDTO
	query := url.Values{"page": {strconv.Itoa(page)}}
	if err := c.do(ctx, http.MethodGet, "notifications", query, nil, &resp); err != nil {
		return nil, err
	}

	out := &domain.NotificationPage{
		Notifications: make([]domain.Notification, 0, len(resp.Notifications)),
		Page:          resp.Page,
		Pages:         resp.Pages,
		Total:         resp.Total,
		UnreadCount:   resp.UnreadCount,
	}
	if out.Page == 0 {
		out.Page = page
	}
	for _, n := range resp.Notifications {
		out.Notifications = append(out.Notifications, n.toDomain())
	}
	return out, nil
}

// PUT notifications/{id}/read
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "notifications/"+segment(id)+"/read", nil, nil, nil)
}

// PUT notifications/read-all
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "notifications/read-all", nil, nil, nil)
}
