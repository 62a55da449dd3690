package supply

import (
	"context"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/dhowden/tag"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/mizikori/airwave/internal/domain/track"
)

// LibrarySupplierConfig holds library supplier settings.
type LibrarySupplierConfig struct {
	Path               string   `mapstructure:"path" validate:"required"`
	Extensions         []string `mapstructure:"extensions" default:"[\".mp3\",\".flac\",\".m4a\",\".ogg\"]"`
	DefaultDurationSec int      `mapstructure:"default_duration_sec" default:"240" validate:"gte=1"`
}

// LibrarySupplier provides tracks from a local music directory. Metadata is
// probed from the files' tags; tracks are picked at random. Used as a
// fallback when the continuation feed is unavailable.
type LibrarySupplier struct {
	config LibrarySupplierConfig
}

// NewLibrarySupplier creates a LibrarySupplier from config settings.
func NewLibrarySupplier(settings map[string]any) (*LibrarySupplier, error) {
	var cfg LibrarySupplierConfig
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	if info, err := os.Stat(cfg.Path); err != nil || !info.IsDir() {
		return nil, errors.Newf("library path is not a directory: %s", cfg.Path)
	}

	return &LibrarySupplier{config: cfg}, nil
}

// Fetch scans the library directory and returns a random selection.
func (s *LibrarySupplier) Fetch(ctx context.Context, criteria Criteria) ([]track.Track, error) {
	if criteria.Count <= 0 {
		return []track.Track{}, nil
	}

	candidates, err := s.scan(ctx, criteria.ExcludeIDs)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []track.Track{}, nil
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > criteria.Count {
		candidates = candidates[:criteria.Count]
	}
	return candidates, nil
}

// scan walks the library directory collecting playable files.
func (s *LibrarySupplier) scan(ctx context.Context, excludeIDs map[string]bool) ([]track.Track, error) {
	var found []track.Track

	err := filepath.WalkDir(s.config.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !s.hasPlayableExtension(path) || excludeIDs[path] {
			return nil
		}
		found = append(found, s.probe(path))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "library scan failed")
	}

	return found, nil
}

// probe reads tag metadata from the file, falling back to the file name.
func (s *LibrarySupplier) probe(path string) track.Track {
	t := track.Track{
		ID:       path,
		Title:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Duration: time.Duration(s.config.DefaultDurationSec) * time.Second,
	}

	f, err := os.Open(path)
	if err != nil {
		zlog.Debug().Msgf("supply: cannot open library file: path=%s error=%v", path, err)
		return t
	}
	defer func() { _ = f.Close() }()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		zlog.Debug().Msgf("supply: no readable tags: path=%s error=%v", path, err)
		return t
	}

	if title := meta.Title(); title != "" {
		t.Title = title
	}
	t.Artist = meta.Artist()
	return t
}

func (s *LibrarySupplier) hasPlayableExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range s.config.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// Name returns the supplier name.
func (s *LibrarySupplier) Name() string {
	return "library"
}
