// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingEngineURL indicates the routing engine URL is not configured.
// The plan endpoints cannot function without it, so startup fails fast.
var ErrMissingEngineURL = errors.New("routing engine URL is not configured")

// Config holds all environment-driven settings.
type Config struct {
	ServerPort  string `mapstructure:"APP_PORT"`
	Environment string `mapstructure:"APP_ENV"`

	// Routing engine (OpenTripPlanner GraphQL endpoint).
	RoutingEngineURL        string        `mapstructure:"ROUTING_ENGINE_URL"`
	RoutingEngineTemplate   string        `mapstructure:"ROUTING_ENGINE_PLAN_TEMPLATE"`
	RoutingEngineTimeOffset time.Duration `mapstructure:"ROUTING_ENGINE_TIME_OFFSET"`
	RoutingEngineTimeout    time.Duration `mapstructure:"ROUTING_ENGINE_TIMEOUT"`

	// Itinerary cache.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// Geocoding provider.
	GeocodingProvider string `mapstructure:"GEOCODING_PROVIDER"`
	GeocodingAPIURL   string `mapstructure:"GEOCODING_PROVIDER_API_URL"`
	GeocodingAPIKey   string `mapstructure:"GEOCODING_PROVIDER_API_KEY"`

	// Telemetry.
	OTELEnabled  bool   `mapstructure:"OTEL_ENABLED"`
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// CORS.
	AllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// Load reads configuration from the environment with sensible defaults.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ROUTING_ENGINE_URL", "")
	v.SetDefault("ROUTING_ENGINE_PLAN_TEMPLATE", "")
	// The engine expects local clock values shifted ahead of the client's
	// wall time. Observed offset for the deployed instance is +2h; override
	// per deployment, this is not a general timezone rule.
	v.SetDefault("ROUTING_ENGINE_TIME_OFFSET", "2h")
	v.SetDefault("ROUTING_ENGINE_TIMEOUT", "10s")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("GEOCODING_PROVIDER", "pelias")
	v.SetDefault("GEOCODING_PROVIDER_API_URL", "")
	v.SetDefault("GEOCODING_PROVIDER_API_KEY", "")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks settings the service cannot run without.
func (c Config) Validate() error {
	if c.RoutingEngineURL == "" {
		return ErrMissingEngineURL
	}
	return nil
}
