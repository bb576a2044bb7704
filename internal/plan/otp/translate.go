package otp

import (
	"fmt"
	"math"
	"time"

	"github.com/tripgate/tripgate/internal/plan"
)

const dateTimeLayout = "2006-01-02 15:04:05"

// buildVariables maps a plan request onto the engine's query variables.
//
// The departure (or arrival) instant is shifted by the engine's clock offset
// before transmission; a shift across midnight rolls the date as well.
func buildVariables(req plan.PlanRequest, offset time.Duration) (planVariables, error) {
	at, err := time.Parse(dateTimeLayout, req.Date+" "+req.Time)
	if err != nil {
		return planVariables{}, fmt.Errorf("%w: %v", plan.ErrInvalidRequest, err)
	}
	at = at.Add(offset)

	modes := make([]transportMode, 0, len(req.TransportModes))
	for _, m := range req.TransportModes {
		if !m.Valid() {
			return planVariables{}, fmt.Errorf("%w: unknown transport mode %q", plan.ErrInvalidRequest, string(m))
		}
		modes = append(modes, transportMode{Mode: string(m)})
	}

	return planVariables{
		Date:           at.Format("2006-01-02"),
		Time:           at.Format("15:04:05"),
		From:           inputCoordinates{Lat: req.Origin.Lat, Lon: req.Origin.Lon},
		To:             inputCoordinates{Lat: req.Destination.Lat, Lon: req.Destination.Lon},
		Wheelchair:     req.Accessible,
		NumItineraries: req.NumItineraries,
		ArriveBy:       req.TimeIsArrival,
		TransportModes: modes,
	}, nil
}

// toTripPlan converts the raw engine payload into the domain model. An
// itinerary that fails conversion is dropped rather than failing the whole
// plan; each drop comes back as an error for the caller to report.
func toTripPlan(p *otpPlan) (*plan.TripPlan, []error) {
	trip := &plan.TripPlan{
		Origin:      plan.Coordinates{Lat: p.From.Lat, Lon: p.From.Lon},
		Destination: plan.Coordinates{Lat: p.To.Lat, Lon: p.To.Lon},
		Itineraries: make([]plan.Itinerary, 0, len(p.Itineraries)),
	}

	var dropped []error
	for i := range p.Itineraries {
		it, err := toItinerary(&p.Itineraries[i])
		if err != nil {
			dropped = append(dropped, fmt.Errorf("itinerary %d: %w", i, err))
			continue
		}
		trip.Itineraries = append(trip.Itineraries, *it)
	}

	return trip, dropped
}

// toItinerary converts one raw itinerary: epoch-ms timestamps become native
// times and leg distances are rounded to whole meters. The id is left empty
// for the caller to assign.
func toItinerary(raw *otpItinerary) (*plan.Itinerary, error) {
	if raw.StartTime == 0 || raw.EndTime == 0 {
		return nil, fmt.Errorf("%w: missing start or end timestamp", plan.ErrInvalidItinerary)
	}
	if raw.Duration < 0 {
		return nil, fmt.Errorf("%w: negative duration", plan.ErrInvalidItinerary)
	}
	if len(raw.Legs) == 0 {
		return nil, fmt.Errorf("%w: itinerary has no legs", plan.ErrInvalidItinerary)
	}

	legs := make([]plan.Leg, 0, len(raw.Legs))
	for i := range raw.Legs {
		leg, err := toLeg(&raw.Legs[i])
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i, err)
		}
		legs = append(legs, *leg)
	}

	return &plan.Itinerary{
		Duration:  raw.Duration,
		StartTime: time.UnixMilli(raw.StartTime),
		EndTime:   time.UnixMilli(raw.EndTime),
		Legs:      legs,
	}, nil
}

func toLeg(raw *otpLeg) (*plan.Leg, error) {
	mode := plan.Mode(raw.Mode)
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", plan.ErrInvalidItinerary, raw.Mode)
	}

	steps := make([]plan.Step, 0, len(raw.Steps))
	for _, s := range raw.Steps {
		steps = append(steps, plan.Step{
			Distance:          s.Distance,
			Lat:               s.Lat,
			Lon:               s.Lon,
			RelativeDirection: plan.RelativeDirection(s.RelativeDirection),
			AbsoluteDirection: plan.AbsoluteDirection(s.AbsoluteDirection),
			StreetName:        s.StreetName,
			BogusName:         s.BogusName,
		})
	}

	return &plan.Leg{
		Mode:     mode,
		Duration: int(raw.Duration),
		Distance: int(math.Round(raw.Distance)),
		Geometry: raw.LegGeometry.Points,
		Steps:    steps,
	}, nil
}
