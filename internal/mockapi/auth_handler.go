package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopwave/storefront/internal/api"
	"github.com/shopwave/storefront/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "invalid_request", "name and a valid email are required")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "weak_password", "password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	user, err := s.store.CreateUser(req.Name, req.Email, hash)
	if errors.Is(err, ErrEmailTaken) {
		respondError(w, http.StatusConflict, "already_exists", "User already exists")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	s.respondToken(w, http.StatusCreated, user.ID)
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.store.UserByEmail(req.Email)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	s.respondToken(w, http.StatusOK, user.ID)
}

func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.User(userIDFromContext(r.Context()))
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "User not found")
		return
	}
	respondJSON(w, http.StatusOK, domain.UserProfile{ID: user.ID, Email: user.Email, Name: user.Name})
}

func (s *Server) RegisterPushToken(w http.ResponseWriter, r *http.Request) {
	var req api.PushTokenRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FCMToken == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "fcmToken is required")
		return
	}
	if err := s.store.SetPushToken(userIDFromContext(r.Context()), req.FCMToken); err != nil {
		respondError(w, http.StatusNotFound, "not_found", "User not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "FCM token updated"})
}

func (s *Server) respondToken(w http.ResponseWriter, status int, userID string) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	respondJSON(w, status, api.TokenResponseDTO{Token: token})
}
