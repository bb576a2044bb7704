package geocoding

import (
	"context"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Provider is the geocoding provider (required).
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service passes autocomplete requests through to the configured provider,
// applying defaults and clipping the result count.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Autocomplete searches places matching the query.
func (s *Service) Autocomplete(ctx context.Context, req AutocompleteRequest) ([]Place, error) {
	if req.Query == "" {
		return nil, ErrEmptyQuery
	}
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}
	if s.provider == nil {
		return nil, ErrProviderUnavailable
	}

	places, err := s.provider.Autocomplete(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).
			Str("provider", s.provider.Name()).
			Str("query", req.Query).
			Msg("autocomplete request failed")
		return nil, err
	}

	if len(places) > req.Limit {
		places = places[:req.Limit]
	}

	return places, nil
}
