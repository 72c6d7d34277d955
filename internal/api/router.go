// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Anastazzi-Grand/bank-rest-main/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(cardHandler *handler.CardHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Card API routes
	r.Route("/cards", func(r chi.Router) {
		r.Post("/", cardHandler.CreateCard)
		r.Get("/", cardHandler.ListMyCards)
		r.Delete("/{cardID}", cardHandler.DeleteCard)
		r.Post("/{cardID}/block", cardHandler.BlockCard)
		r.Post("/{cardID}/activate", cardHandler.ActivateCard)
	})

	r.Get("/users/{userID}/cards", cardHandler.ListUserCards)
	r.Get("/admin/cards", cardHandler.ListAllCards)

	// Transfer is a separate top-level endpoint as it involves two cards
	r.Post("/transfers", cardHandler.Transfer)

	return r
}
