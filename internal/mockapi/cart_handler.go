package mockapi

import (
	"errors"
	"net/http"

	"github.com/shopwave/storefront/internal/api"
)

func (s *Server) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, cartToDTO(s.store.Cart(userIDFromContext(r.Context()))))
}

func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req api.AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	if err := s.store.AddItem(userID, req.ProductID, req.Quantity); err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cartToDTO(s.store.Cart(userID)))
}

func (s *Server) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req api.UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	if err := s.store.UpdateQuantity(userID, pathParam(r, "productID"), req.Quantity); err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartToDTO(s.store.Cart(userID)))
}

func (s *Server) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	if err := s.store.RemoveItem(userID, pathParam(r, "productID")); err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartToDTO(s.store.Cart(userID)))
}

func (s *Server) ClearCart(w http.ResponseWriter, r *http.Request) {
	s.store.ClearCart(userIDFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// respondStoreError maps store sentinels to HTTP answers.
func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "Product not found")
	case errors.Is(err, ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", "Item not found in cart")
	case errors.Is(err, ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "Order not found")
	case errors.Is(err, ErrInsufficientStock):
		respondError(w, http.StatusBadRequest, "insufficient_stock", "Not enough stock available")
	case errors.Is(err, ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "Cart is empty")
	case errors.Is(err, ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_status", "Order status cannot change")
	default:
		s.log.Error("store error", "err", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
