// Package mockapi is an in-memory storefront backend that speaks the same
// REST contract as production, for local development and end-to-end tests.
package mockapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/shopwave/storefront/internal/events"
)

type Server struct {
	store     *Store
	tokens    *Tokens
	publisher events.Publisher
	log       *slog.Logger
}

// NewServer wires the handlers. publisher may be nil.
func NewServer(store *Store, tokens *Tokens, publisher events.Publisher, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		store:     store,
		tokens:    tokens,
		publisher: publisher,
		log:       log.With("component", "mockapi"),
	}
}

func (s *Server) Routes(requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Get("/categories", s.Categories)
		r.Get("/products/new", s.NewProducts)
		r.Get("/products/top-selling", s.TopSellingProducts)
		r.Get("/products/category/{id}", s.ProductsByCategory)
		r.Get("/products/{id}", s.Product)

		r.Group(func(r chi.Router) {
			r.Use(s.tokens.Authenticate)

			r.Get("/auth/profile", s.Profile)
			r.Post("/auth/fcm-token", s.RegisterPushToken)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", s.GetCart)
				r.Delete("/", s.ClearCart)
				r.Post("/items", s.AddItem)
				r.Put("/items/{productID}", s.UpdateQuantity)
				r.Delete("/items/{productID}", s.RemoveItem)
			})

			r.Post("/orders", s.CreateOrder)
			r.Get("/orders", s.ListOrders)
			r.Get("/orders/{id}", s.GetOrder)

			r.Get("/notifications", s.ListNotifications)
			r.Put("/notifications/read-all", s.MarkAllNotificationsRead)
			r.Put("/notifications/{id}/read", s.MarkNotificationRead)

			r.With(s.requireAdmin).Put("/admin/orders/{id}/status", s.SetOrderStatus)
		})
	})

	return otelhttp.NewHandler(r, "mockapi")
}

// requireAdmin must run after Authenticate.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.store.User(userIDFromContext(r.Context()))
		if err != nil || !user.Admin {
			respondError(w, http.StatusForbidden, "forbidden", "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
