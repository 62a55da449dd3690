// Package playback supervises the external player process.
//
// At most one process is live per controller. Each start returns a Handle
// carrying the caller's generation token and a completion channel; a
// deliberate stop closes the channel without a value so that watchers can
// tell a forced stop apart from a natural exit.
package playback

import "github.com/google/uuid"

// ExitReason describes how a playback process ended.
type ExitReason int

const (
	ReasonFinished ExitReason = iota // Process exited normally
	ReasonCrashed                    // Process exited with a nonzero status
)

// String returns the string representation of the exit reason.
func (r ExitReason) String() string {
	switch r {
	case ReasonFinished:
		return "finished"
	case ReasonCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// Handle binds a spawned process to the generation active at spawn time.
type Handle struct {
	id         string
	generation uint64
	done       chan ExitReason
}

func newHandle(generation uint64) *Handle {
	return &Handle{
		id:         uuid.New().String(),
		generation: generation,
		done:       make(chan ExitReason, 1),
	}
}

// ID returns the handle's unique ID.
func (h *Handle) ID() string {
	return h.id
}

// Generation returns the generation the process was spawned under.
func (h *Handle) Generation() uint64 {
	return h.generation
}

// Done returns the completion channel. A natural exit delivers an ExitReason
// before the channel is closed; a deliberate stop closes it without a value.
func (h *Handle) Done() <-chan ExitReason {
	return h.done
}
