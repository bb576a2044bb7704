// Package plan provides multimodal trip planning against an external
// routing engine, with a persistent per-itinerary cache.
package plan

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for plan operations.
var (
	// ErrInvalidRequest indicates the plan request failed validation.
	ErrInvalidRequest = errors.New("invalid plan request")
	// ErrEngineUnavailable indicates the routing engine could not be reached.
	ErrEngineUnavailable = errors.New("routing engine unavailable")
	// ErrEngineError indicates the routing engine responded with an error payload.
	ErrEngineError = errors.New("routing engine returned an error")
	// ErrInvalidItinerary indicates a returned itinerary is unusable (already
	// ended, or failed translation).
	ErrInvalidItinerary = errors.New("invalid itinerary")
	// ErrNotFound indicates no itinerary exists for the given id.
	ErrNotFound = errors.New("itinerary not found")
	// ErrCorruptRecord indicates a stored itinerary could not be decoded.
	ErrCorruptRecord = errors.New("stored itinerary record is corrupt")
	// ErrInvalidTTL indicates a non-positive record lifetime.
	ErrInvalidTTL = errors.New("record time-to-live must be positive")
)

// Mode is a transport mode understood by the routing engine.
// The set is closed; requests carrying anything else are rejected.
type Mode string

const (
	ModeAirplane   Mode = "AIRPLANE"
	ModeBicycle    Mode = "BICYCLE"
	ModeBus        Mode = "BUS"
	ModeCableCar   Mode = "CABLE_CAR"
	ModeCar        Mode = "CAR"
	ModeCarpool    Mode = "CARPOOL"
	ModeCoach      Mode = "COACH"
	ModeFerry      Mode = "FERRY"
	ModeFlex       Mode = "FLEX"
	ModeFunicular  Mode = "FUNICULAR"
	ModeGondola    Mode = "GONDOLA"
	ModeMonorail   Mode = "MONORAIL"
	ModeRail       Mode = "RAIL"
	ModeScooter    Mode = "SCOOTER"
	ModeSubway     Mode = "SUBWAY"
	ModeTaxi       Mode = "TAXI"
	ModeTram       Mode = "TRAM"
	ModeTransit    Mode = "TRANSIT"
	ModeTrolleybus Mode = "TROLLEYBUS"
	ModeWalk       Mode = "WALK"
)

// knownModes is the closed set of accepted transport modes.
var knownModes = map[Mode]struct{}{
	ModeAirplane: {}, ModeBicycle: {}, ModeBus: {}, ModeCableCar: {},
	ModeCar: {}, ModeCarpool: {}, ModeCoach: {}, ModeFerry: {},
	ModeFlex: {}, ModeFunicular: {}, ModeGondola: {}, ModeMonorail: {},
	ModeRail: {}, ModeScooter: {}, ModeSubway: {}, ModeTaxi: {},
	ModeTram: {}, ModeTransit: {}, ModeTrolleybus: {}, ModeWalk: {},
}

// Valid reports whether m is part of the closed mode set.
func (m Mode) Valid() bool {
	_, ok := knownModes[m]
	return ok
}

// Coordinates is a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlanRequest is the public trip-planning request.
type PlanRequest struct {
	Origin         Coordinates
	Destination    Coordinates
	Date           string // YYYY-MM-DD
	Time           string // HH:MM:SS, no timezone
	TimeIsArrival  bool
	TransportModes []Mode
	Accessible     bool
	NumItineraries int
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"

	// DefaultNumItineraries is used when the request does not ask for a count.
	DefaultNumItineraries = 3
)

// Validate checks the request invariants: parseable date and time, a
// non-empty set of known transport modes, and a positive itinerary count.
// A zero count means no preference and is replaced with DefaultNumItineraries.
func (r *PlanRequest) Validate() error {
	if _, err := time.Parse(dateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: date must be in the format YYYY-MM-DD", ErrInvalidRequest)
	}
	if _, err := time.Parse(timeLayout, r.Time); err != nil {
		return fmt.Errorf("%w: time must be in the format HH:MM:SS", ErrInvalidRequest)
	}
	if len(r.TransportModes) == 0 {
		return fmt.Errorf("%w: at least one transport mode is required", ErrInvalidRequest)
	}
	for _, m := range r.TransportModes {
		if !m.Valid() {
			return fmt.Errorf("%w: unknown transport mode %q", ErrInvalidRequest, string(m))
		}
	}
	if r.NumItineraries == 0 {
		r.NumItineraries = DefaultNumItineraries
	}
	if r.NumItineraries < 0 {
		return fmt.Errorf("%w: itinerary count must be positive", ErrInvalidRequest)
	}
	return nil
}

// RelativeDirection is a turn instruction relative to the current heading.
type RelativeDirection string

// AbsoluteDirection is a compass heading.
type AbsoluteDirection string

// Step is one turn-by-turn instruction within a leg.
type Step struct {
	Distance          float64           `json:"distance"`
	Lat               float64           `json:"lat"`
	Lon               float64           `json:"lon"`
	RelativeDirection RelativeDirection `json:"relative_direction"`
	AbsoluteDirection AbsoluteDirection `json:"absolute_direction"`
	StreetName        string            `json:"street_name"`
	// BogusName marks a street name synthesized by the engine rather than
	// taken from map data.
	BogusName bool `json:"bogus_name"`
}

// Leg is one continuous segment of an itinerary in a single mode.
type Leg struct {
	Mode     Mode   `json:"mode"`
	Duration int    `json:"duration"` // seconds
	Distance int    `json:"distance"` // meters, rounded
	Geometry string `json:"geometry"` // encoded polyline
	Steps    []Step `json:"steps"`
}

// Itinerary is one complete proposed journey, in its detailed form. This is
// the shape persisted to the store and returned by id lookups.
type Itinerary struct {
	ID          string
	Duration    int // seconds
	StartTime   time.Time
	EndTime     time.Time
	Origin      Coordinates
	Destination Coordinates
	Legs        []Leg
}

// LegSummary is the lightweight per-leg view returned from a plan call.
type LegSummary struct {
	Mode     Mode
	Duration int
	Distance int
	Geometry string
	// Ratio is this leg's share of the itinerary's total duration,
	// rounded to two decimals. Zero when the total duration is zero.
	Ratio float64
}

// ItinerarySummary is the lightweight view of an itinerary returned from a
// plan call. It is always derived from the detailed record, never stored.
type ItinerarySummary struct {
	ID          string
	Duration    int
	StartTime   time.Time
	EndTime     time.Time
	Origin      Coordinates
	Destination Coordinates
	Legs        []LegSummary
}

// TripPlan is the translated routing-engine response for one plan query.
// Itinerary IDs are assigned by the caller, not the engine.
type TripPlan struct {
	Origin      Coordinates
	Destination Coordinates
	Itineraries []Itinerary
}

// Engine is the routing-engine dependency of the plan service.
type Engine interface {
	// Plan issues a trip-planning query and returns the translated response.
	Plan(ctx context.Context, req PlanRequest) (*TripPlan, error)
	// Name returns the engine identifier for logging and metrics.
	Name() string
}

// Error provides detailed error information from a plan operation.
type Error struct {
	Engine  string // engine that generated the error, if any
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrEngineUnavailable)
}
