package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/trend-finder/internal/api"
	apiMiddleware "github.com/phrazzld/trend-finder/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	throttle := apiMiddleware.NewIPRateLimiter(app.config.Server.RequestsPerMinute, app.config.Server.Burst)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.sessions)

	sessionHandler := api.NewSessionHandler(app.sessions, app.logger)
	catalogHandler := api.NewCatalogHandler(app.catalog)
	trendHandler := api.NewTrendHandler(app.trends, app.catalog, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(throttle.Middleware)

		// Public endpoints
		r.Post("/sessions", sessionHandler.CreateSession)
		r.Get("/catalog", catalogHandler.GetCatalog)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/trends", trendHandler.PostTrends)
			r.Get("/trends", trendHandler.GetTrends)
			r.Get("/usage", trendHandler.GetUsage)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
