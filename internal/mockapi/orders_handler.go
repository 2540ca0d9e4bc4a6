package mockapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopwave/storefront/internal/api"
	"github.com/shopwave/storefront/internal/domain"
	"github.com/shopwave/storefront/internal/events"
)

type statusRequestDTO struct {
	Status string `json:"status"`
}

func (s *Server) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req api.CreateOrderRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	draft := domain.OrderDraft{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		Note:            req.Note,
	}
	if err := draft.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := s.store.CreateOrder(userIDFromContext(r.Context()), draft)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.log.Info("order created", slog.String("order_id", order.ID), slog.String("total", order.TotalAmount.String()))
	s.store.Notify(userIDFromContext(r.Context()), domain.Notification{
		Type:    domain.NotificationOrder,
		Title:   "Order Confirmed",
		Message: fmt.Sprintf("Your order #%s has been confirmed", shortID(order.ID)),
		OrderID: order.ID,
	})
	respondJSON(w, http.StatusCreated, orderToDTO(order))
}

func (s *Server) ListOrders(w http.ResponseWriter, r *http.Request) {
	var status domain.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := domain.ParseOrderStatus(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
			return
		}
		status = parsed
	}

	orders, counts := s.store.Orders(userIDFromContext(r.Context()), status)
	out := api.OrderListDTO{
		Orders:       make([]api.OrderDTO, 0, len(orders)),
		StatusCounts: make(map[string]int, len(counts)),
	}
	for _, o := range orders {
		out.Orders = append(out.Orders, orderToDTO(o))
	}
	for k, v := range counts {
		out.StatusCounts[k.String()] = v
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.store.Order(userIDFromContext(r.Context()), pathParam(r, "id"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orderToDTO(order))
}

// SetOrderStatus is the admin hook that moves an order along and publishes
// the change.
func (s *Server) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}

	order, userID, err := s.store.SetOrderStatus(pathParam(r, "id"), status)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.store.Notify(userID, domain.Notification{
		Type:    domain.NotificationOrder,
		Title:   statusTitle(order.Status),
		Message: fmt.Sprintf("Your order #%s is now %s", shortID(order.ID), order.Status),
		OrderID: order.ID,
	})

	if s.publisher != nil {
		ev := events.OrderStatusChanged{
			OrderID:   order.ID,
			UserID:    userID,
			Status:    order.Status,
			ChangedAt: time.Now().UTC(),
		}
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
		defer cancel()
		if err := s.publisher.PublishStatusChanged(ctx, ev); err != nil {
			s.log.Warn("publish status change failed", slog.String("order_id", order.ID), slog.Any("err", err))
		}
	}

	respondJSON(w, http.StatusOK, orderToDTO(order))
}

func statusTitle(status domain.OrderStatus) string {
	switch status {
	case domain.OrderStatusProcessing:
		return "Order Processing"
	case domain.OrderStatusShipped:
		return "Delivery Update"
	case domain.OrderStatusDelivered:
		return "Order Delivered"
	case domain.OrderStatusCancelled:
		return "Order Cancelled"
	}
	return "Order Update"
}

// shortID is the customer-facing order number.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
