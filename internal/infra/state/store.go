// Package state provides file-backed session persistence.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/mizikori/airwave/internal/domain/session"
	"github.com/mizikori/airwave/internal/domain/track"
)

// ErrNoSnapshot is returned by Load when no snapshot file exists.
var ErrNoSnapshot = errors.New("no session snapshot on disk")

// persistedTrack is the on-disk track representation.
type persistedTrack struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	DurationSec int64  `json:"duration_sec"`
}

// persistedSession is the on-disk session representation.
type persistedSession struct {
	Status     string           `json:"status"`
	Seed       persistedTrack   `json:"seed"`
	Current    *persistedTrack  `json:"current,omitempty"`
	Queue      []persistedTrack `json:"queue"`
	Generation uint64           `json:"generation"`
}

// Store persists session snapshots to a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store writing to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the snapshot to disk, creating parent directories as needed.
func (s *Store) Save(snap session.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := persistedSession{
		Status:     snap.Status.String(),
		Seed:       toPersisted(snap.Seed),
		Queue:      make([]persistedTrack, 0, len(snap.Queue)),
		Generation: snap.Generation,
	}
	if snap.Current != nil {
		cur := toPersisted(*snap.Current)
		p.Current = &cur
	}
	for _, t := range snap.Queue {
		p.Queue = append(p.Queue, toPersisted(t))
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal session snapshot")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errors.Wrap(err, "failed to create state directory")
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write state file")
	}

	return nil
}

// Load reads the last saved snapshot from disk.
func (s *Store) Load() (session.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return session.Snapshot{}, ErrNoSnapshot
		}
		return session.Snapshot{}, errors.Wrap(err, "failed to read state file")
	}

	var p persistedSession
	if err := json.Unmarshal(data, &p); err != nil {
		return session.Snapshot{}, errors.Wrap(err, "failed to parse state file")
	}

	snap := session.Snapshot{
		Status:     parseStatus(p.Status),
		Seed:       fromPersisted(p.Seed),
		Queue:      make([]track.Track, 0, len(p.Queue)),
		Generation: p.Generation,
	}
	if p.Current != nil {
		cur := fromPersisted(*p.Current)
		snap.Current = &cur
	}
	for _, t := range p.Queue {
		snap.Queue = append(snap.Queue, fromPersisted(t))
	}

	return snap, nil
}

// Remove deletes the snapshot file. Missing files are not an error.
func (s *Store) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove state file")
	}
	return nil
}

func toPersisted(t track.Track) persistedTrack {
	return persistedTrack{
		ID:          t.ID,
		Title:       t.Title,
		Artist:      t.Artist,
		DurationSec: int64(t.Duration.Seconds()),
	}
}

func fromPersisted(p persistedTrack) track.Track {
	return track.Track{
		ID:       p.ID,
		Title:    p.Title,
		Artist:   p.Artist,
		Duration: time.Duration(p.DurationSec) * time.Second,
	}
}

func parseStatus(s string) session.Status {
	switch s {
	case "active":
		return session.StatusActive
	case "paused":
		return session.StatusPaused
	default:
		return session.StatusInactive
	}
}
