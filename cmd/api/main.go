// Package main provides the entrypoint for the TripGate API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tripgate/tripgate/internal/api"
	"github.com/tripgate/tripgate/internal/api/middleware"
	"github.com/tripgate/tripgate/internal/config"
	"github.com/tripgate/tripgate/internal/geocoding"
	"github.com/tripgate/tripgate/internal/geocoding/pelias"
	"github.com/tripgate/tripgate/internal/plan"
	"github.com/tripgate/tripgate/internal/plan/otp"
	"github.com/tripgate/tripgate/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// storePinger adapts the redis client to the readiness check.
type storePinger struct {
	client *redis.Client
}

func (p storePinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	const serviceName = "tripgate-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting TripGate API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTELEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to the itinerary store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		// Plan responses survive a missing store, cached lookups do not.
		log.Warn().Err(err).
			Str("addr", cfg.RedisAddr).
			Msg("itinerary store unreachable at startup")
	} else {
		log.Info().Str("addr", cfg.RedisAddr).Msg("itinerary store connected")
	}
	pingCancel()

	repository := plan.NewRedisRepository(redisClient, log)

	// Initialize the routing engine client
	engine, err := otp.NewClient(otp.ClientConfig{
		BaseURL:      cfg.RoutingEngineURL,
		TemplatePath: cfg.RoutingEngineTemplate,
		TimeOffset:   cfg.RoutingEngineTimeOffset,
		Timeout:      cfg.RoutingEngineTimeout,
		Logger:       log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize routing engine client")
	}
	log.Info().
		Str("engine", engine.Name()).
		Str("url", cfg.RoutingEngineURL).
		Dur("time_offset", cfg.RoutingEngineTimeOffset).
		Msg("routing engine client initialized")

	planService := plan.NewService(plan.ServiceConfig{
		Engine:     engine,
		Repository: repository,
		Logger:     log,
	})
	log.Info().Msg("plan service initialized")

	// Initialize geocoding (optional, endpoints fail without a provider URL)
	var geocodingService *geocoding.Service
	if cfg.GeocodingAPIURL != "" {
		provider := pelias.NewClient(pelias.ClientConfig{
			BaseURL: cfg.GeocodingAPIURL,
			APIKey:  cfg.GeocodingAPIKey,
			Logger:  log,
		})
		geocodingService = geocoding.NewService(geocoding.ServiceConfig{
			Provider: provider,
			Logger:   log,
		})
		log.Info().Str("provider", provider.Name()).Msg("geocoding service initialized")
	} else {
		geocodingService = geocoding.NewService(geocoding.ServiceConfig{Logger: log})
		log.Warn().Msg("geocoding provider not configured - autocomplete will fail")
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		Metrics:          metrics,
		PlanService:      planService,
		GeocodingService: geocodingService,
		StorePinger:      storePinger{client: redisClient},
		AllowedOrigins:   cfg.AllowedOrigins,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
