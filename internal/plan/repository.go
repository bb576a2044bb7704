package plan

import (
	"context"
	"time"
)

// Repository is the persistence contract for detailed itineraries.
//
// Records are written once with a bounded lifetime and never updated. After
// the lifetime elapses the record no longer exists and Get reports ErrNotFound.
type Repository interface {
	// Put stores the itinerary under its id, expiring after ttl.
	// A non-positive ttl is an error; records are never stored without
	// an expiration.
	Put(ctx context.Context, it *Itinerary, ttl time.Duration) error

	// Get reads the itinerary stored under id. Returns ErrNotFound when the
	// key is absent or expired, and ErrCorruptRecord when the stored fields
	// cannot be reconstructed.
	Get(ctx context.Context, id string) (*Itinerary, error)
}
