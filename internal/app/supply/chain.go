package supply

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/mizikori/airwave/internal/domain/track"
)

// SupplierWithMetadata wraps a supplier with its display name.
type SupplierWithMetadata struct {
	Supplier    Supplier
	DisplayName string
}

// Chain tries multiple suppliers in order until enough tracks are collected.
// A failing supplier is logged and skipped; the chain errors only when every
// supplier fails. A cycle where suppliers succeed but every candidate is
// already excluded yields an empty result, not an error.
type Chain struct {
	suppliers []SupplierWithMetadata
}

// NewChain creates a new supplier chain.
func NewChain(suppliers []SupplierWithMetadata) *Chain {
	return &Chain{suppliers: suppliers}
}

// Fetch collects tracks from the chain's suppliers.
func (c *Chain) Fetch(ctx context.Context, criteria Criteria) ([]track.Track, error) {
	var collected []track.Track
	succeeded := false

	exclude := make(map[string]bool, len(criteria.ExcludeIDs))
	for k, v := range criteria.ExcludeIDs {
		exclude[k] = v
	}

	for i, sm := range c.suppliers {
		if len(collected) >= criteria.Count {
			break
		}

		zlog.Debug().Msgf("supply: trying supplier: index=%d total=%d name=%s type=%s",
			i+1, len(c.suppliers), sm.DisplayName, sm.Supplier.Name())

		got, err := sm.Supplier.Fetch(ctx, Criteria{
			Seed:       criteria.Seed,
			Count:      criteria.Count - len(collected),
			ExcludeIDs: exclude,
		})
		if err != nil {
			zlog.Warn().Msgf("supply: supplier failed, trying next: supplier=%s error=%v",
				sm.DisplayName, err)
			continue
		}
		succeeded = true

		for _, t := range got {
			if exclude[t.ID] {
				continue
			}
			collected = append(collected, t)
			exclude[t.ID] = true
		}

		zlog.Debug().Msgf("supply: supplier returned tracks: supplier=%s count=%d total_so_far=%d",
			sm.DisplayName, len(got), len(collected))
	}

	if !succeeded {
		return nil, errors.New("all suppliers failed to return tracks")
	}

	return collected, nil
}

// Name returns the chain name.
func (c *Chain) Name() string {
	return "chain"
}
