// Package api provides the HTTP API for the trip-planning gateway.
package api

import (
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tripgate/tripgate/internal/api/handler"
	"github.com/tripgate/tripgate/internal/api/middleware"
	"github.com/tripgate/tripgate/internal/geocoding"
	"github.com/tripgate/tripgate/internal/plan"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	Metrics          *middleware.Metrics
	PlanService      *plan.Service
	GeocodingService *geocoding.Service
	StorePinger      handler.Pinger

	// AllowedOrigins is a comma-separated list of origins for the
	// cross-origin policy. Empty means same-origin only.
	AllowedOrigins string
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)  // Generate/propagate request ID first
	r.Use(middleware.Tracing())  // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	if cfg.AllowedOrigins != "" {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: splitOrigins(cfg.AllowedOrigins),
		}))
	}
	r.Use(middleware.RequireJSON)     // Reject non-JSON bodies
	r.Use(middleware.ContentTypeJSON) // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.StorePinger)
	planHandler := handler.NewPlanHandler(cfg.PlanService)
	geocodingHandler := handler.NewGeocodingHandler(cfg.GeocodingService)

	// Rate limits per endpoint category
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Routing endpoints - the plan query fans out to the routing
		// engine, so it gets the strict limit
		r.Route("/routing", func(r chi.Router) {
			r.With(expensiveRateLimit).Post("/plan", planHandler.Plan)
			r.With(standardRateLimit).Get("/itineraries/{itineraryId}", planHandler.GetItinerary)
		})

		// Geocoding endpoints
		r.Route("/geocoding", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/autocomplete", geocodingHandler.Autocomplete)
		})
	})

	return r
}

func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
