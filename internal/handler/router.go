package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shodh-memory/widget-gateway/internal/middleware"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
)

// Handlers groups the route handlers. Admin may be nil.
type Handlers struct {
	Health *HealthHandler
	Chat   *ChatHandler
	Stream *StreamHandler
	Voice  *VoiceHandler
	Lead   *LeadHandler
	Widget *WidgetHandler
	Admin  *AdminHandler
}

// RouterConfig holds the router settings.
type RouterConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	AdminJWTSecret    string
}

// NewRouter builds the HTTP routes.
func NewRouter(h Handlers, cfg RouterConfig, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/widget.js", h.Widget.Script)

	// Widget endpoints answer any origin and never require credentials.
	r.Group(func(r chi.Router) {
		r.Use(middleware.WidgetCORS)
		if cfg.RateLimitRequests > 0 {
			r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}

		r.Post("/api/chat", h.Chat.Chat)
		r.Options("/api/chat", Preflight)
		r.Post("/api/chat/stream", h.Stream.Stream)
		r.Options("/api/chat/stream", Preflight)
		r.Post("/api/voice", h.Voice.Voice)
		r.Options("/api/voice", Preflight)
		r.Post("/api/lead", h.Lead.Lead)
		r.Options("/api/lead", Preflight)
	})

	if cfg.AdminJWTSecret != "" && h.Admin != nil {
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.AdminJWTSecret))
			r.With(middleware.RequireScope(middleware.ScopeSessionsRead)).Get("/sessions", h.Admin.Sessions)
			r.With(middleware.RequireScope(middleware.ScopeClientsRead)).Get("/clients", h.Admin.Clients)
		})
	}

	return r
}
