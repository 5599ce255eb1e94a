// Package router sets up the HTTP routes and middleware chains for the
// rendering API. All /api routes sit behind bearer-token auth and rate
// limiting; the health check stays open.
package router

import (
	"github.com/go-chi/chi/v5"

	"postforge/internal/handlers"
	"postforge/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter may be nil to disable rate limiting.
func New(api *handlers.API, tokenHash string, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware. Applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check. No auth, no rate limit.
	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Use(middleware.RequireToken(tokenHash))

		r.Post("/render", api.CreateRender)
		r.Get("/jobs/{id}", api.JobStatus)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", api.TemplatesList)
			r.Post("/", api.TemplateCreate)
			r.Post("/generate", api.TemplateGenerate)
			r.Get("/{id}", api.TemplateGet)
			r.Put("/{id}", api.TemplateUpdate)
			r.Delete("/{id}", api.TemplateDelete)
		})
	})

	return r
}
