package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/honeypot-agent/internal/honeypot"
	httpmiddleware "github.com/wolfman30/honeypot-agent/internal/http/middleware"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	HoneypotHandler    *honeypot.Handler
	AdminHandler       *honeypot.AdminHandler
	APIKey             string
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Limiter throttles the message endpoint per client IP (optional).
	Limiter httpmiddleware.Limiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	if cfg.HoneypotHandler == nil {
		panic("router: honeypot handler cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	// Public endpoints (health checks, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/", cfg.HoneypotHandler.Health)
		public.Head("/", cfg.HoneypotHandler.Health)
		public.Get("/health", cfg.HoneypotHandler.Health)
		public.Head("/health", cfg.HoneypotHandler.Health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Honeypot message endpoint (x-api-key)
	r.Group(func(api chi.Router) {
		if cfg.Limiter != nil {
			api.Use(httpmiddleware.RateLimit(cfg.Limiter, logger))
		}
		api.Use(httpmiddleware.APIKey(cfg.APIKey, logger))
		api.Post("/", cfg.HoneypotHandler.Message)
	})

	// Operator routes (HS256 JWT)
	if cfg.AdminAuthSecret != "" && cfg.AdminHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret, logger))
			admin.Get("/providers", cfg.AdminHandler.Providers)
		})
	}

	return r
}
