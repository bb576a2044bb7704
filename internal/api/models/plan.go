package models

import (
	"time"

	"github.com/tripgate/tripgate/internal/plan"
)

// Coordinates is a geographic point in the public API contract.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlanRequest is the body of POST /v1/routing/plan.
type PlanRequest struct {
	Origin         Coordinates `json:"origin"`
	Destination    Coordinates `json:"destination"`
	Date           string      `json:"date"`
	Time           string      `json:"time"`
	TimeIsArrival  bool        `json:"time_is_arrival"`
	TransportModes []string    `json:"transport_modes"`
	Accessible     bool        `json:"accessible"`
	NumItineraries int         `json:"num_itineraries"`
}

// ToDomain converts the API request to the domain model.
func (r PlanRequest) ToDomain() plan.PlanRequest {
	modes := make([]plan.Mode, 0, len(r.TransportModes))
	for _, m := range r.TransportModes {
		modes = append(modes, plan.Mode(m))
	}
	return plan.PlanRequest{
		Origin:         plan.Coordinates{Lat: r.Origin.Lat, Lon: r.Origin.Lon},
		Destination:    plan.Coordinates{Lat: r.Destination.Lat, Lon: r.Destination.Lon},
		Date:           r.Date,
		Time:           r.Time,
		TimeIsArrival:  r.TimeIsArrival,
		TransportModes: modes,
		Accessible:     r.Accessible,
		NumItineraries: r.NumItineraries,
	}
}

// LegSummary is the per-leg view within a plan response.
type LegSummary struct {
	Mode     string  `json:"mode"`
	Duration int     `json:"duration"`
	Distance int     `json:"distance"`
	Geometry string  `json:"geometry"`
	Ratio    float64 `json:"ratio"`
}

// ItinerarySummary is one proposed journey within a plan response.
type ItinerarySummary struct {
	ItineraryID string       `json:"itinerary_id"`
	Duration    int          `json:"duration"`
	StartTime   time.Time    `json:"start_time"`
	EndTime     time.Time    `json:"end_time"`
	Origin      Coordinates  `json:"origin"`
	Destination Coordinates  `json:"destination"`
	Legs        []LegSummary `json:"legs"`
}

// PlanResponse is the body returned by POST /v1/routing/plan.
type PlanResponse struct {
	Itineraries []ItinerarySummary `json:"itineraries"`
}

// NewPlanResponse converts domain summaries to the API shape.
func NewPlanResponse(summaries []plan.ItinerarySummary) PlanResponse {
	out := PlanResponse{Itineraries: make([]ItinerarySummary, 0, len(summaries))}
	for _, s := range summaries {
		legs := make([]LegSummary, 0, len(s.Legs))
		for _, leg := range s.Legs {
			legs = append(legs, LegSummary{
				Mode:     string(leg.Mode),
				Duration: leg.Duration,
				Distance: leg.Distance,
				Geometry: leg.Geometry,
				Ratio:    leg.Ratio,
			})
		}
		out.Itineraries = append(out.Itineraries, ItinerarySummary{
			ItineraryID: s.ID,
			Duration:    s.Duration,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			Origin:      Coordinates{Lat: s.Origin.Lat, Lon: s.Origin.Lon},
			Destination: Coordinates{Lat: s.Destination.Lat, Lon: s.Destination.Lon},
			Legs:        legs,
		})
	}
	return out
}

// Step is one turn-by-turn instruction within a detailed leg.
type Step struct {
	Distance          float64 `json:"distance"`
	Lat               float64 `json:"lat"`
	Lon               float64 `json:"lon"`
	RelativeDirection string  `json:"relative_direction"`
	AbsoluteDirection string  `json:"absolute_direction"`
	StreetName        string  `json:"street_name"`
	BogusName         bool    `json:"bogus_name"`
}

// LegDetailed is the per-leg view within a detailed itinerary response.
type LegDetailed struct {
	Mode     string `json:"mode"`
	Duration int    `json:"duration"`
	Distance int    `json:"distance"`
	Geometry string `json:"geometry"`
	Steps    []Step `json:"steps"`

	// Points is the decoded leg geometry, present only when the caller
	// asked for expanded geometry.
	Points []Coordinates `json:"points,omitempty"`
}

// ItineraryDetailed is the body returned by GET /v1/routing/itineraries/{id}.
type ItineraryDetailed struct {
	ItineraryID string        `json:"itinerary_id"`
	Duration    int           `json:"duration"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Origin      Coordinates   `json:"origin"`
	Destination Coordinates   `json:"destination"`
	Legs        []LegDetailed `json:"legs"`
}

// NewItineraryDetailed converts a domain itinerary to the API shape.
func NewItineraryDetailed(it *plan.Itinerary) ItineraryDetailed {
	legs := make([]LegDetailed, 0, len(it.Legs))
	for _, leg := range it.Legs {
		steps := make([]Step, 0, len(leg.Steps))
		for _, s := range leg.Steps {
			steps = append(steps, Step{
				Distance:          s.Distance,
				Lat:               s.Lat,
				Lon:               s.Lon,
				RelativeDirection: string(s.RelativeDirection),
				AbsoluteDirection: string(s.AbsoluteDirection),
				StreetName:        s.StreetName,
				BogusName:         s.BogusName,
			})
		}
		legs = append(legs, LegDetailed{
			Mode:     string(leg.Mode),
			Duration: leg.Duration,
			Distance: leg.Distance,
			Geometry: leg.Geometry,
			Steps:    steps,
		})
	}
	return ItineraryDetailed{
		ItineraryID: it.ID,
		Duration:    it.Duration,
		StartTime:   it.StartTime,
		EndTime:     it.EndTime,
		Origin:      Coordinates{Lat: it.Origin.Lat, Lon: it.Origin.Lon},
		Destination: Coordinates{Lat: it.Destination.Lat, Lon: it.Destination.Lon},
		Legs:        legs,
	}
}
