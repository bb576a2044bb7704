package models

import "github.com/tripgate/tripgate/internal/geocoding"

// Place is one geocoding result in the public API contract.
type Place struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Address     string      `json:"address"`
	Description string      `json:"description"`
	Coordinates Coordinates `json:"coordinates"`
}

// NewPlaces converts domain places to the API shape.
func NewPlaces(places []geocoding.Place) []Place {
	out := make([]Place, 0, len(places))
	for _, p := range places {
		out = append(out, Place{
			ID:          p.ID,
			Name:        p.Name,
			Type:        p.Type,
			Address:     p.Address,
			Description: p.Description(),
			Coordinates: Coordinates{Lat: p.Coordinates.Lat, Lon: p.Coordinates.Lon},
		})
	}
	return out
}
