package plan

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/tripgate/tripgate/internal/plan"

// ServiceConfig holds configuration for the plan service.
type ServiceConfig struct {
	// Engine is the routing-engine client (required).
	Engine Engine

	// Repository is the itinerary store (required).
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time

	// NewID overrides itinerary id generation, for tests.
	// Defaults to random UUIDs: collision-free under concurrent use
	// without coordination.
	NewID func() string
}

// Service orchestrates trip planning: it queries the routing engine,
// caches each returned itinerary under a fresh id, and serves later
// lookups of those ids.
type Service struct {
	engine  Engine
	repo    Repository
	logger  zerolog.Logger
	now     func() time.Time
	newID   func() string
	metrics *serviceMetrics
}

type serviceMetrics struct {
	planned       metric.Int64Counter
	invalid       metric.Int64Counter
	storeFailures metric.Int64Counter
}

// NewService creates a new plan service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Service{
		engine:  cfg.Engine,
		repo:    cfg.Repository,
		logger:  cfg.Logger,
		now:     now,
		newID:   newID,
		metrics: newServiceMetrics(cfg.Logger),
	}
}

func newServiceMetrics(logger zerolog.Logger) *serviceMetrics {
	meter := otel.Meter(meterName)

	planned, err := meter.Int64Counter(
		"plan.itineraries.planned",
		metric.WithDescription("Itineraries returned to callers"),
		metric.WithUnit("{itinerary}"),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to create plan metrics")
		return nil
	}
	invalid, err := meter.Int64Counter(
		"plan.itineraries.invalid",
		metric.WithDescription("Itineraries discarded for non-positive remaining lifetime"),
		metric.WithUnit("{itinerary}"),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to create plan metrics")
		return nil
	}
	storeFailures, err := meter.Int64Counter(
		"plan.store.failures",
		metric.WithDescription("Itinerary store writes that failed"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to create plan metrics")
		return nil
	}

	return &serviceMetrics{planned: planned, invalid: invalid, storeFailures: storeFailures}
}

// Plan runs a trip-planning query and returns itinerary summaries in the
// order the engine produced them.
//
// Each usable itinerary is assigned a fresh id and persisted with a lifetime
// equal to the time remaining until its end. Itineraries that have already
// ended, and itineraries whose store write fails, are dropped from the
// response so the service never advertises an id that cannot be fetched;
// either condition is logged and counted but does not fail the call.
func (s *Service) Plan(ctx context.Context, req PlanRequest) ([]ItinerarySummary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	trip, err := s.engine.Plan(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).
			Str("engine", s.engine.Name()).
			Str("date", req.Date).
			Str("time", req.Time).
			Msg("plan query failed")
		return nil, err
	}

	now := s.now()
	summaries := make([]ItinerarySummary, 0, len(trip.Itineraries))

	for i := range trip.Itineraries {
		it := trip.Itineraries[i]
		it.ID = s.newID()
		it.Origin = trip.Origin
		it.Destination = trip.Destination

		ttl := it.EndTime.Sub(now)
		if ttl <= 0 {
			s.logger.Warn().
				Str("itinerary_id", it.ID).
				Time("end_time", it.EndTime).
				Msg("discarding itinerary that ends in the past")
			if s.metrics != nil {
				s.count(ctx, s.metrics.invalid)
			}
			continue
		}

		if err := s.repo.Put(ctx, &it, ttl); err != nil {
			s.logger.Error().Err(err).
				Str("itinerary_id", it.ID).
				Msg("failed to persist itinerary")
			if s.metrics != nil {
				s.count(ctx, s.metrics.storeFailures)
			}
			continue
		}

		summaries = append(summaries, Summarize(it))
	}

	if s.metrics != nil {
		s.metrics.planned.Add(ctx, int64(len(summaries)),
			metric.WithAttributes(attribute.String("engine", s.engine.Name())))
	}

	s.logger.Info().
		Int("requested", req.NumItineraries).
		Int("returned", len(trip.Itineraries)).
		Int("usable", len(summaries)).
		Msg("plan completed")

	return summaries, nil
}

// Itinerary returns the detailed itinerary stored under id. Errors from the
// repository (ErrNotFound, ErrCorruptRecord) propagate unchanged.
func (s *Service) Itinerary(ctx context.Context, id string) (*Itinerary, error) {
	it, err := s.repo.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error().Err(err).
				Str("itinerary_id", id).
				Msg("failed to read itinerary")
		}
		return nil, err
	}
	return it, nil
}

func (s *Service) count(ctx context.Context, counter metric.Int64Counter) {
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("engine", s.engine.Name())))
}
