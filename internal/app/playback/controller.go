package playback

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/mizikori/airwave/internal/domain/track"
)

// ErrSpawn is marked on errors returned when the player process cannot be
// launched.
var ErrSpawn = errors.New("player process failed to launch")

// Config holds controller configuration.
type Config struct {
	StopTimeout time.Duration // Grace period between SIGTERM and SIGKILL
}

// liveProcess tracks the one process the controller currently owns.
type liveProcess struct {
	handle  *Handle
	proc    Process
	stopped bool // set before a deliberate termination; suppresses completion
}

// Controller owns at most one live player process at a time.
type Controller struct {
	// opMu serializes Start/Stop/Close so that the terminate-then-spawn
	// sequence of one caller cannot interleave with another's.
	opMu sync.Mutex

	// mu guards live; shared with the per-process wait goroutine.
	mu   sync.Mutex
	live *liveProcess

	runner Runner
	config Config
}

// NewController creates a controller using the given runner.
func NewController(runner Runner, config Config) *Controller {
	if config.StopTimeout <= 0 {
		config.StopTimeout = 3 * time.Second
	}
	return &Controller{
		runner: runner,
		config: config,
	}
}

// Start terminates any tracked process, then spawns a new one for the track.
// The returned handle carries the caller-supplied generation.
func (c *Controller) Start(t track.Track, generation uint64) (*Handle, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	prev := c.live
	c.live = nil
	c.mu.Unlock()

	if prev != nil {
		c.terminate(prev)
	}

	proc, err := c.runner.Start(t)
	if err != nil {
		return nil, errors.Mark(err, ErrSpawn)
	}

	lp := &liveProcess{
		handle: newHandle(generation),
		proc:   proc,
	}

	c.mu.Lock()
	c.live = lp
	c.mu.Unlock()

	zlog.Debug().Msgf("playback: started: track=%s handle=%s generation=%d",
		t.Label(), lp.handle.id, generation)

	go c.wait(lp)

	return lp.handle, nil
}

// Stop terminates the process bound to the handle. Idempotent: calling it on
// an already-exited or already-stopped handle, or on a handle that no longer
// matches the live process, has no effect. A deliberate stop never produces a
// completion notification.
func (c *Controller) Stop(h *Handle) {
	if h == nil {
		return
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	lp := c.live
	if lp == nil || lp.handle != h {
		c.mu.Unlock()
		return
	}
	c.live = nil
	c.mu.Unlock()

	zlog.Debug().Msgf("playback: stopping: handle=%s generation=%d", h.id, h.generation)
	c.terminate(lp)
}

// Close stops any live process.
func (c *Controller) Close() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	lp := c.live
	c.live = nil
	c.mu.Unlock()

	if lp != nil {
		c.terminate(lp)
	}
}

// terminate runs the graceful-then-forced stop sequence and waits for the
// process to be reaped. The handle's done channel is closed by the wait
// goroutine once Wait returns, in every path.
func (c *Controller) terminate(lp *liveProcess) {
	c.mu.Lock()
	lp.stopped = true
	c.mu.Unlock()

	if err := lp.proc.Terminate(); err != nil {
		zlog.Debug().Msgf("playback: terminate signal failed (process may have exited): %v", err)
	}

	select {
	case <-lp.handle.done:
		return
	case <-time.After(c.config.StopTimeout):
	}

	zlog.Warn().Msgf("playback: process did not exit within %v, killing: handle=%s",
		c.config.StopTimeout, lp.handle.id)
	if err := lp.proc.Kill(); err != nil {
		zlog.Debug().Msgf("playback: kill failed (process may have exited): %v", err)
	}
	<-lp.handle.done
}

// wait reaps the process and delivers the completion notification.
func (c *Controller) wait(lp *liveProcess) {
	err := lp.proc.Wait()

	c.mu.Lock()
	stopped := lp.stopped
	if c.live == lp {
		c.live = nil
	}
	c.mu.Unlock()

	if stopped {
		close(lp.handle.done)
		return
	}

	reason := ReasonFinished
	if err != nil {
		reason = ReasonCrashed
		zlog.Warn().Msgf("playback: process exited abnormally: handle=%s error=%v", lp.handle.id, err)
	} else {
		zlog.Debug().Msgf("playback: process finished: handle=%s generation=%d",
			lp.handle.id, lp.handle.generation)
	}

	lp.handle.done <- reason
	close(lp.handle.done)
}
