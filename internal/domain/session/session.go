// Package session provides the radio session state.
package session

import (
	"github.com/mizikori/airwave/internal/domain/track"
)

// Status represents the radio session lifecycle status.
type Status int

const (
	StatusInactive Status = iota // No radio session
	StatusActive                 // Radio is playing (or waiting for a refill)
	StatusPaused                 // Radio is paused, queue and current track preserved
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusActive:
		return "active"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Session holds the radio session state: status, seed, current track, queue
// and the generation counter. All mutation is serialized by the owning engine;
// Session itself carries no lock.
type Session struct {
	Status     Status
	Seed       track.Track
	Current    *track.Track
	Queue      []track.Track
	Generation uint64
}

// New returns an inactive session.
func New() *Session {
	return &Session{
		Status: StatusInactive,
		Queue:  make([]track.Track, 0),
	}
}

// PopNext removes and returns the queue head.
// Returns nil when the queue is empty.
func (s *Session) PopNext() *track.Track {
	if len(s.Queue) == 0 {
		return nil
	}
	head := s.Queue[0]
	s.Queue = s.Queue[1:]
	return &head
}

// Append adds tracks to the end of the queue.
func (s *Session) Append(tracks []track.Track) {
	s.Queue = append(s.Queue, tracks...)
}

// Clear resets the session to inactive, dropping queue and current track.
// The generation counter is not reset; it only ever moves forward.
func (s *Session) Clear() {
	s.Status = StatusInactive
	s.Current = nil
	s.Queue = make([]track.Track, 0)
}

// TrackIDs returns the IDs of the current track and every queued track,
// used for duplicate avoidance when requesting more candidates.
func (s *Session) TrackIDs() map[string]bool {
	ids := make(map[string]bool, len(s.Queue)+2)
	ids[s.Seed.ID] = true
	if s.Current != nil {
		ids[s.Current.ID] = true
	}
	for _, t := range s.Queue {
		ids[t.ID] = true
	}
	return ids
}

// Snapshot is a deep copy of a session, safe to hand to other goroutines.
type Snapshot struct {
	Status     Status
	Seed       track.Track
	Current    *track.Track
	Queue      []track.Track
	Generation uint64
}

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Status:     s.Status,
		Seed:       s.Seed,
		Generation: s.Generation,
		Queue:      make([]track.Track, len(s.Queue)),
	}
	copy(snap.Queue, s.Queue)
	if s.Current != nil {
		cur := *s.Current
		snap.Current = &cur
	}
	return snap
}

// Restore overwrites the session from a snapshot.
func (s *Session) Restore(snap Snapshot) {
	s.Status = snap.Status
	s.Seed = snap.Seed
	s.Generation = snap.Generation
	s.Queue = make([]track.Track, len(snap.Queue))
	copy(s.Queue, snap.Queue)
	s.Current = nil
	if snap.Current != nil {
		cur := *snap.Current
		s.Current = &cur
	}
}
