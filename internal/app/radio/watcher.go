package radio

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/mizikori/airwave/internal/app/playback"
	"github.com/mizikori/airwave/internal/domain/session"
)

// watch is the completion watcher: one instance runs per successful playback
// start, holding the handle spawned under its generation. It performs no
// mutation unless the session's generation and status still match the
// handle's; any foreground transition in the meantime has bumped the
// generation and the notification is discarded.
func (e *Engine) watch(h Handle) {
	defer e.wg.Done()

	select {
	case <-e.ctx.Done():
		return

	case reason, ok := <-h.Done():
		if !ok {
			// Deliberate stop: the controller closed the channel without a
			// reason. Never advance on these, or a pause/stop/skip would
			// double-advance the queue.
			zlog.Debug().Msgf("radio: watcher exiting after deliberate stop: generation=%d",
				h.Generation())
			return
		}
		e.onCompletion(h, reason)
	}
}

// onCompletion handles a natural process exit.
func (e *Engine) onCompletion(h Handle, reason playback.ExitReason) {
	if reason == playback.ReasonCrashed {
		e.onCrash(h)
		return
	}

	gen := h.Generation()
	if err := e.advance(&gen); err != nil && !errors.Is(err, ErrNotActive) && !errors.Is(err, ErrClosed) {
		zlog.Warn().Msgf("radio: auto-advance failed: %v", err)
	}
}

// onCrash drives the session to Paused with the crash recorded, leaving queue
// and current track intact so the user can resume or skip.
func (e *Engine) onCrash(h Handle) {
	e.mu.Lock()
	if e.session.Generation != h.Generation() || e.session.Status != session.StatusActive {
		e.mu.Unlock()
		zlog.Debug().Msgf("radio: discarding stale crash notification: generation=%d current=%d",
			h.Generation(), e.session.Generation)
		return
	}
	e.session.Generation++
	e.session.Status = session.StatusPaused
	e.handle = nil
	err := errors.Newf("player process crashed while playing %s", describeCurrentLocked(e.session))
	e.lastErr = err
	snap := e.session.Snapshot()
	e.mu.Unlock()

	zlog.Error().Msg(err.Error())
	e.sink.OnError(ErrorCrash, err.Error())
	e.persist(snap)
}

func describeCurrentLocked(s *session.Session) string {
	if s.Current == nil {
		return "(unknown track)"
	}
	return s.Current.Label()
}
