package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries everything the HTTP router mounts.
type RouterConfig struct {
	Handler *Handler
	Health  *HealthHandler
	// Metrics is served at /metrics when set.
	Metrics http.Handler
	// Auth guards /api/v1 when set.
	Auth    func(http.Handler) http.Handler
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewRouter builds the chi router for the REST API.
func NewRouter(cfg RouterConfig) http.Handler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := newBaseRouter(cfg.Health, cfg.Metrics, cfg.Logger)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}
		cfg.Handler.Routes(r)
	})

	return r
}

// NewOpsRouter serves only health probes and metrics, for processes with no
// public API.
func NewOpsRouter(health *HealthHandler, metrics http.Handler, logger *slog.Logger) http.Handler {
	return newBaseRouter(health, metrics, logger)
}

func newBaseRouter(health *HealthHandler, metrics http.Handler, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", health.liveness)
	r.Get("/readyz", health.readiness)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	return r
}
