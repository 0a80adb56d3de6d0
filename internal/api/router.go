package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"chatguard-lab/internal/api/handlers"
	"chatguard-lab/internal/api/middleware"
	"chatguard-lab/internal/config"
	"chatguard-lab/internal/infrastructure/cache"
	"chatguard-lab/pkg/logger"
)

// NewRouter builds the HTTP router with middleware and routes
func NewRouter(cfg *config.Config, h *handlers.Handlers, redis *cache.RedisCache, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	if cfg.RateLimit.Enabled && redis != nil {
		r.Use(middleware.RateLimiter(redis, cfg.RateLimit.RequestsPerMinute, log))
	}

	// Public endpoints
	r.Get("/health", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/api/v1/stats", h.Stats)

	// Authenticated analysis endpoints
	r.Route("/api/v1/analysis", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.Auth.APIKey, log))
		r.Post("/text", h.AnalyzeText)
		r.Post("/chat", h.AnalyzeChat)
		r.Get("/patterns", h.Patterns)
	})

	return r
}
