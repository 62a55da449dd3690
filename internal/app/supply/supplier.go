// Package supply provides track supply strategies for the radio queue.
package supply

import (
	"context"

	"github.com/mizikori/airwave/internal/domain/track"
)

// Criteria describes one supply request.
type Criteria struct {
	// Seed is the track recommendations should continue from.
	Seed track.Track
	// Count is the number of tracks wanted.
	Count int
	// ExcludeIDs holds track IDs already in the session, for duplicate
	// avoidance.
	ExcludeIDs map[string]bool
}

// Supplier is the interface for track suppliers. Different implementations
// provide tracks through various strategies (continuation feed, local
// library, etc.).
type Supplier interface {
	// Fetch retrieves up to criteria.Count tracks.
	Fetch(ctx context.Context, criteria Criteria) ([]track.Track, error)

	// Name returns the supplier name (used in config).
	Name() string
}
