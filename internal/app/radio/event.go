package radio

import "github.com/mizikori/airwave/internal/domain/track"

// EventSink receives display-facing notifications from the engine. The engine
// never touches presentation state directly; a front end implements this
// interface to render track and queue changes.
//
// Sink methods may be called from multiple goroutines and must not block.
type EventSink interface {
	// OnTrackChanged reports the new current track (nil when playback
	// stopped or the queue ran dry).
	OnTrackChanged(t *track.Track)
	// OnQueueChanged reports the new upcoming-queue contents.
	OnQueueChanged(queue []track.Track)
	// OnError reports a non-fatal engine error.
	OnError(kind ErrorKind, message string)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OnTrackChanged(*track.Track)  {}
func (NopSink) OnQueueChanged([]track.Track) {}
func (NopSink) OnError(ErrorKind, string)    {}
