package supply

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/mizikori/airwave/internal/domain/track"
	"github.com/mizikori/airwave/internal/infra/ytmusic"
)

// FeedClient defines the watch-playlist operations the radio supplier needs.
type FeedClient interface {
	GetWatchPlaylist(ctx context.Context, videoID string, limit int) ([]ytmusic.WatchTrack, error)
}

// RadioSupplierConfig holds radio supplier settings.
type RadioSupplierConfig struct {
	BaseURL   string `mapstructure:"base_url" validate:"required"`
	TimeoutMs int    `mapstructure:"timeout_ms" default:"10000" validate:"gte=100"`
}

// RadioSupplier provides tracks from a watch-playlist continuation feed,
// seeded by the most recent track.
type RadioSupplier struct {
	feed FeedClient
}

// NewRadioSupplier creates a RadioSupplier from config settings.
func NewRadioSupplier(settings map[string]any) (*RadioSupplier, error) {
	var cfg RadioSupplierConfig
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	feed, err := ytmusic.New(ytmusic.Config{
		BaseURL: cfg.BaseURL,
		Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create feed client")
	}

	return &RadioSupplier{feed: feed}, nil
}

// NewRadioSupplierWithClient creates a RadioSupplier around an existing client.
func NewRadioSupplierWithClient(feed FeedClient) *RadioSupplier {
	return &RadioSupplier{feed: feed}
}

// Fetch retrieves the radio continuation for the criteria's seed track.
func (s *RadioSupplier) Fetch(ctx context.Context, criteria Criteria) ([]track.Track, error) {
	if criteria.Seed.ID == "" {
		return nil, errors.New("seed track is required")
	}
	if criteria.Count <= 0 {
		return []track.Track{}, nil
	}

	// Ask for headroom so excluded duplicates don't starve the result.
	limit := criteria.Count + len(criteria.ExcludeIDs)

	entries, err := s.feed.GetWatchPlaylist(ctx, criteria.Seed.ID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "watch playlist fetch failed")
	}

	tracks := make([]track.Track, 0, criteria.Count)
	for _, e := range entries {
		if e.VideoID == "" || criteria.ExcludeIDs[e.VideoID] {
			continue
		}
		tracks = append(tracks, track.Track{
			ID:       e.VideoID,
			Title:    e.Title,
			Artist:   e.PrimaryArtist(),
			Duration: track.ParseDuration(e.Duration.Text),
		})
		if len(tracks) >= criteria.Count {
			break
		}
	}

	return tracks, nil
}

// Name returns the supplier name.
func (s *RadioSupplier) Name() string {
	return "radio"
}
