package plan

import "math"

// Summarize projects a detailed itinerary onto its summary form, computing
// each leg's share of the total duration. Pure and deterministic: calling it
// twice on the same itinerary yields identical results.
func Summarize(it Itinerary) ItinerarySummary {
	summary := ItinerarySummary{
		ID:          it.ID,
		Duration:    it.Duration,
		StartTime:   it.StartTime,
		EndTime:     it.EndTime,
		Origin:      it.Origin,
		Destination: it.Destination,
		Legs:        make([]LegSummary, 0, len(it.Legs)),
	}

	for _, leg := range it.Legs {
		ratio := 0.0
		if it.Duration > 0 {
			ratio = round2(float64(leg.Duration) / float64(it.Duration))
		}
		summary.Legs = append(summary.Legs, LegSummary{
			Mode:     leg.Mode,
			Duration: leg.Duration,
			Distance: leg.Distance,
			Geometry: leg.Geometry,
			Ratio:    ratio,
		})
	}

	return summary
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
