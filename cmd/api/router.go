package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/crucial707/itemvault/internal/auth"
	"github.com/crucial707/itemvault/internal/config"
	"github.com/crucial707/itemvault/internal/handlers"
	"github.com/crucial707/itemvault/internal/middleware"
	"github.com/crucial707/itemvault/internal/repo"
)

// newRouter assembles the full middleware chain and routes. Kept separate
// from main so tests can run the real router against httptest servers.
func newRouter(users *repo.UserRepo, items *repo.ItemRepo, tokens *auth.Service, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.Prometheus)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         86400,
		}).Handler)
	}

	authHandler := &handlers.AuthHandler{Users: users, Tokens: tokens}
	itemHandler := &handlers.ItemHandler{Repo: items}

	r.Get("/api/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Public auth endpoints, rate limited per IP.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthRateLimiter().Middleware)
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
		r.Post("/api/register", authHandler.Register)
		r.Post("/api/login", authHandler.Login)
	})

	// Item CRUD behind the token gate.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
		r.Get("/api/items", itemHandler.ListItems)
		r.Post("/api/items", itemHandler.CreateItem)
		r.Put("/api/items/{id}", itemHandler.UpdateItem)
		r.Delete("/api/items/{id}", itemHandler.DeleteItem)
	})

	return r
}
