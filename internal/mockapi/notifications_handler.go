package mockapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shopwave/storefront/internal/api"
)

const notificationsPerPage = 10

func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "invalid_page", "page must be a positive integer")
			return
		}
		page = n
	}

	p := s.store.Notifications(userIDFromContext(r.Context()), page, notificationsPerPage)
	out := api.NotificationListDTO{
		Notifications: make([]api.NotificationDTO, 0, len(p.Notifications)),
		Page:          p.Page,
		Pages:         p.Pages,
		Total:         p.Total,
		UnreadCount:   p.UnreadCount,
	}
	for _, n := range p.Notifications {
		out.Notifications = append(out.Notifications, api.NotificationToDTO(n))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	err := s.store.MarkNotificationRead(userIDFromContext(r.Context()), pathParam(r, "id"))
	if errors.Is(err, ErrNotificationNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "Notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	s.store.MarkAllNotificationsRead(userIDFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
