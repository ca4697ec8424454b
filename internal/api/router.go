/**
 * @description
 * This file sets up the HTTP router for the checkout-service using the
 * go-chi/chi router. The checkout funnel is the public, pre-auth surface of
 * the storefront, so no authentication middleware is applied.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers the checkout-service
// routes.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Checkout service is healthy"))
	})

	r.Get("/plans", h.handleListPlans)
	r.Get("/plans/{planID}/pricing", h.handleGetPricing)

	r.Route("/checkout/session", func(r chi.Router) {
		r.Post("/", h.handleStartSession)
		r.Put("/details", h.handleApplyDetails)
		r.Put("/schedule", h.handleApplySchedule)
		r.Post("/back", h.handleBack)
		r.Post("/submit", h.handleSubmit)
		r.Get("/dates", h.handleGetDates)
	})

	return r
}
