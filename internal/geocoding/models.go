// Package geocoding provides place search through an external geocoding provider.
package geocoding

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors for geocoding operations.
var (
	// ErrProviderUnavailable indicates the geocoding provider could not be reached.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
	// ErrProviderError indicates the provider responded with an error.
	ErrProviderError = errors.New("geocoding provider returned an error")
	// ErrEmptyQuery indicates an autocomplete request without search text.
	ErrEmptyQuery = errors.New("autocomplete query must not be empty")
)

// Coordinates is a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is one geocoding result.
type Place struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Address     string      `json:"address"`
	Street      string      `json:"street,omitempty"`
	Locality    string      `json:"locality,omitempty"`
	Postcode    string      `json:"postcode,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

// Description produces a simplified subtext from the address parts, falling
// back to the full address when no finer parts are known.
func (p Place) Description() string {
	if p.Street == "" && (p.Locality == "" || p.Name == p.Locality) {
		return p.Address
	}
	parts := make([]string, 0, 3)
	for _, part := range []string{p.Street, p.Locality, p.Postcode} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// AutocompleteRequest is a place-search request.
type AutocompleteRequest struct {
	Query string

	// FocusPoint biases results toward a location, when set.
	FocusPoint *Coordinates

	// Limit caps the number of results (default 5).
	Limit int
}

// DefaultLimit is the result cap used when a request does not set one.
const DefaultLimit = 5

// Provider defines the interface for geocoding providers.
type Provider interface {
	// Autocomplete searches places matching the request.
	Autocomplete(ctx context.Context, req AutocompleteRequest) ([]Place, error)
	// Name returns the provider identifier for logging.
	Name() string
}
