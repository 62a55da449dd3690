// Package radio provides the continuous-playback engine.
//
// The engine owns the radio session (status, current track, queue) and
// serializes every mutation through one mutex. Two execution contexts drive
// it: foreground commands (StartRadio, PauseAll, Resume, Skip, StopRadio) and
// per-playback completion watchers. Blocking calls — spawning or stopping the
// player process, fetching tracks — always run outside the mutex; their
// results are applied under it only after re-validating the session's
// generation counter. Any transition bumps the generation, which turns every
// in-flight watcher callback and refill fetch for an older generation into a
// no-op.
package radio

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/mizikori/airwave/internal/app/playback"
	"github.com/mizikori/airwave/internal/app/supply"
	"github.com/mizikori/airwave/internal/domain/session"
	"github.com/mizikori/airwave/internal/domain/track"
)

// Handle is the engine's view of a playback handle: the generation the
// process was spawned under and its completion channel.
type Handle interface {
	Generation() uint64
	Done() <-chan playback.ExitReason
}

// Player abstracts the playback controller.
type Player interface {
	// Start spawns a player process for the track, replacing any live one.
	Start(t track.Track, generation uint64) (Handle, error)
	// Stop terminates the process bound to the handle. Idempotent.
	Stop(h Handle)
}

// Supplier abstracts the track supply mechanism.
type Supplier interface {
	Fetch(ctx context.Context, criteria supply.Criteria) ([]track.Track, error)
}

// Store abstracts session snapshot persistence.
type Store interface {
	Save(snap session.Snapshot) error
	Load() (session.Snapshot, error)
}

// Config holds engine configuration.
type Config struct {
	InitialFetchCount int // Batch size for the first fetch after StartRadio
	RefillThreshold   int // Queue length below which a refill is requested
	RefillFetchCount  int // Batch size for refill fetches
}

// Engine is the radio session state machine.
type Engine struct {
	mu        sync.Mutex
	session   *session.Session
	handle    Handle // live playback handle, nil when not playing
	refilling bool   // a refill fetch is in flight
	lastErr   error
	closed    bool

	player   Player
	supplier Supplier
	store    Store // may be nil
	sink     EventSink
	config   Config

	// saveMu serializes snapshot saves so a snapshot captured at an older
	// generation can never overwrite a newer one.
	saveMu       sync.Mutex
	lastSavedGen uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup // watchers and refill fetches
}

// NewEngine creates an engine. store may be nil to disable persistence; sink
// may be nil to discard events.
func NewEngine(player Player, supplier Supplier, store Store, sink EventSink, config Config) *Engine {
	if config.InitialFetchCount <= 0 {
		config.InitialFetchCount = 20
	}
	if config.RefillThreshold <= 0 {
		config.RefillThreshold = 5
	}
	if config.RefillFetchCount <= 0 {
		config.RefillFetchCount = 15
	}
	if sink == nil {
		sink = NopSink{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		session:  session.New(),
		player:   player,
		supplier: supplier,
		store:    store,
		sink:     sink,
		config:   config,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// StartRadio starts a radio session around the seed track. If a session is
// already running it is restarted around the new seed. The initial fetch is
// blocking but runs outside the mutation gate; a fetch failure leaves the
// session Active with an empty queue and is reported through the sink, not
// returned.
func (e *Engine) StartRadio(ctx context.Context, seed track.Track) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.session.Generation++
	gen := e.session.Generation
	e.session.Status = session.StatusActive
	e.session.Seed = seed
	e.session.Current = nil
	e.session.Queue = make([]track.Track, 0)
	old := e.handle
	e.handle = nil
	e.mu.Unlock()

	if old != nil {
		e.player.Stop(old)
	}

	zlog.Info().Msgf("radio: starting: seed=%s generation=%d", seed.Label(), gen)

	tracks, err := e.supplier.Fetch(ctx, supply.Criteria{
		Seed:       seed,
		Count:      e.config.InitialFetchCount,
		ExcludeIDs: map[string]bool{seed.ID: true},
	})

	e.mu.Lock()
	if e.session.Generation != gen {
		e.mu.Unlock()
		zlog.Debug().Msgf("radio: discarding stale initial fetch: generation=%d", gen)
		return nil
	}
	if err != nil {
		snap := e.session.Snapshot()
		e.mu.Unlock()
		zlog.Warn().Msgf("radio: initial fetch failed, session stays active with empty queue: %v", err)
		e.sink.OnError(ErrorSupply, err.Error())
		e.persist(snap)
		return nil
	}

	e.session.Append(tracks)
	current := e.session.PopNext()
	e.session.Current = current
	queue := e.queueCopyLocked()
	snap := e.session.Snapshot()
	e.mu.Unlock()

	e.sink.OnQueueChanged(queue)
	e.sink.OnTrackChanged(current)
	e.persist(snap)

	if current != nil {
		return e.startPlayback(*current, gen)
	}
	return nil
}

// Skip abandons the current track and plays the next one. User-driven synonym
// for the watcher's auto-advance; both funnel through the same gate.
func (e *Engine) Skip(ctx context.Context) error {
	return e.advance(nil)
}

// PauseAll stops the player process while preserving the queue and current
// track. A later Resume reproduces the exact pre-pause state.
func (e *Engine) PauseAll() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.session.Status != session.StatusActive {
		e.mu.Unlock()
		return nil
	}
	e.session.Generation++
	e.session.Status = session.StatusPaused
	old := e.handle
	e.handle = nil
	snap := e.session.Snapshot()
	e.mu.Unlock()

	if old != nil {
		e.player.Stop(old)
	}
	zlog.Info().Msg("radio: paused")
	e.persist(snap)
	return nil
}

// Resume restarts playback of the preserved current track. Calling it while
// already Active is a no-op; calling it on a session that was never started
// returns ErrNotStarted.
func (e *Engine) Resume(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	switch e.session.Status {
	case session.StatusActive:
		e.mu.Unlock()
		return nil
	case session.StatusInactive:
		e.mu.Unlock()
		return ErrNotStarted
	}

	e.session.Generation++
	gen := e.session.Generation
	e.session.Status = session.StatusActive

	current := e.session.Current
	if current == nil {
		// Nothing was playing when paused; fall through to a fresh pop.
		current = e.session.PopNext()
		e.session.Current = current
	}
	refill := e.maybeScheduleRefillLocked(gen)
	queue := e.queueCopyLocked()
	snap := e.session.Snapshot()
	e.mu.Unlock()

	e.sink.OnQueueChanged(queue)
	e.sink.OnTrackChanged(current)
	if refill != nil {
		refill()
	}

	zlog.Info().Msgf("radio: resuming: generation=%d", gen)
	e.persist(snap)

	if current != nil {
		return e.startPlayback(*current, gen)
	}
	return nil
}

// StopRadio tears the session down: the process is stopped, queue and current
// track are cleared, status becomes Inactive. Safe to call in any status.
func (e *Engine) StopRadio() error {
	e.mu.Lock()
	if e.session.Status == session.StatusInactive {
		e.mu.Unlock()
		return nil
	}
	e.session.Generation++
	e.session.Clear()
	old := e.handle
	e.handle = nil
	snap := e.session.Snapshot()
	e.mu.Unlock()

	if old != nil {
		e.player.Stop(old)
	}
	zlog.Info().Msg("radio: stopped")

	e.sink.OnTrackChanged(nil)
	e.sink.OnQueueChanged([]track.Track{})
	e.persist(snap)
	return nil
}

// Status returns a deep-copied snapshot of the session. Safe to call from any
// goroutine.
func (e *Engine) Status() session.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Snapshot()
}

// LastError returns the most recent playback error that drove the session to
// Paused, or nil.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Restore loads the persisted snapshot into a Paused session so that a plain
// Resume continues where the previous run stopped.
func (e *Engine) Restore(ctx context.Context) error {
	if e.store == nil {
		return errors.New("no session store configured")
	}

	snap, err := e.store.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load session snapshot")
	}
	if snap.Status == session.StatusInactive {
		return ErrNotStarted
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.session.Status != session.StatusInactive {
		e.mu.Unlock()
		return errors.New("cannot restore into a running session")
	}
	e.session.Restore(snap)
	e.session.Status = session.StatusPaused
	e.session.Generation = snap.Generation + 1
	current := e.session.Current
	queue := e.queueCopyLocked()
	e.mu.Unlock()

	e.sink.OnQueueChanged(queue)
	e.sink.OnTrackChanged(current)

	zlog.Info().Msgf("radio: session restored: queue=%d generation=%d", len(queue), snap.Generation+1)
	return nil
}

// Close shuts the engine down: stops playback, cancels in-flight watchers and
// refills, and waits for them to exit.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	old := e.handle
	e.handle = nil
	e.mu.Unlock()

	e.cancel()
	if old != nil {
		e.player.Stop(old)
	}
	e.wg.Wait()
}

// advance pops the queue head as the new current track and plays it. When
// expectGen is non-nil the advance is performed only if the session's
// generation still matches (the watcher path); a mismatch means a competing
// transition won and the call is a silent no-op.
func (e *Engine) advance(expectGen *uint64) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.session.Status != session.StatusActive {
		e.mu.Unlock()
		return ErrNotActive
	}
	if expectGen != nil && e.session.Generation != *expectGen {
		e.mu.Unlock()
		zlog.Debug().Msgf("radio: discarding stale advance: generation=%d current=%d",
			*expectGen, e.session.Generation)
		return nil
	}

	e.session.Generation++
	gen := e.session.Generation
	next := e.session.PopNext()
	e.session.Current = next

	refill := e.maybeScheduleRefillLocked(gen)
	old := e.handle
	e.handle = nil
	queue := e.queueCopyLocked()
	snap := e.session.Snapshot()
	e.mu.Unlock()

	// On the watcher path the process has already exited and Stop is a no-op;
	// on the skip path this tears the old process down.
	if old != nil {
		e.player.Stop(old)
	}

	e.sink.OnTrackChanged(next)
	e.sink.OnQueueChanged(queue)
	if refill != nil {
		refill()
	}
	e.persist(snap)

	if next != nil {
		return e.startPlayback(*next, gen)
	}
	zlog.Info().Msg("radio: queue empty, waiting for refill")
	return nil
}

// startPlayback spawns the player process for the track under generation gen
// and attaches a completion watcher. A spawn failure drives the session to
// Paused with the error recorded, and is returned to the caller.
func (e *Engine) startPlayback(t track.Track, gen uint64) error {
	h, err := e.player.Start(t, gen)
	if err != nil {
		e.mu.Lock()
		var snap *session.Snapshot
		if e.session.Generation == gen {
			e.session.Generation++
			e.session.Status = session.StatusPaused
			e.lastErr = err
			s := e.session.Snapshot()
			snap = &s
		}
		e.mu.Unlock()
		zlog.Error().Msgf("radio: failed to start playback: track=%s error=%v", t.Label(), err)
		e.sink.OnError(ErrorSpawn, err.Error())
		if snap != nil {
			e.persist(*snap)
		}
		return err
	}

	e.mu.Lock()
	if e.closed || e.session.Generation != gen || e.session.Status != session.StatusActive {
		// A competing transition happened while the process was spawning.
		e.mu.Unlock()
		e.player.Stop(h)
		return nil
	}
	e.handle = h
	e.wg.Add(1)
	e.mu.Unlock()

	zlog.Info().Msgf("radio: now playing: track=%s generation=%d", t.Label(), gen)

	go e.watch(h)
	return nil
}

// maybeScheduleRefillLocked checks the refill threshold and, if crossed,
// returns a closure that launches the refill fetch. Must be called with the
// lock held; the closure must be invoked after releasing it. At most one
// refill is in flight at a time.
func (e *Engine) maybeScheduleRefillLocked(gen uint64) func() {
	if e.refilling || len(e.session.Queue) >= e.config.RefillThreshold {
		return nil
	}
	e.refilling = true

	seed := e.session.Seed
	if e.session.Current != nil {
		seed = *e.session.Current
	}
	exclude := e.session.TrackIDs()

	e.wg.Add(1)
	return func() {
		go e.refill(seed, gen, exclude)
	}
}

// refill fetches a continuation batch and appends it, unless the session's
// generation moved on while the fetch was in flight.
func (e *Engine) refill(seed track.Track, gen uint64, exclude map[string]bool) {
	defer e.wg.Done()

	zlog.Debug().Msgf("radio: refill requested: seed=%s generation=%d", seed.Label(), gen)

	tracks, err := e.supplier.Fetch(e.ctx, supply.Criteria{
		Seed:       seed,
		Count:      e.config.RefillFetchCount,
		ExcludeIDs: exclude,
	})

	e.mu.Lock()
	e.refilling = false
	if e.session.Generation != gen || e.session.Status != session.StatusActive {
		e.mu.Unlock()
		zlog.Debug().Msgf("radio: discarding stale refill: generation=%d", gen)
		return
	}
	if err != nil {
		e.mu.Unlock()
		zlog.Warn().Msgf("radio: refill fetch failed, will retry on next threshold crossing: %v", err)
		e.sink.OnError(ErrorSupply, err.Error())
		return
	}
	if len(tracks) == 0 {
		e.mu.Unlock()
		zlog.Warn().Msgf("radio: refill returned no new tracks: generation=%d", gen)
		return
	}

	e.session.Append(tracks)

	// The queue may have drained before this batch landed, leaving the
	// session Active with no current track and no live watcher. The refill
	// commit then doubles as the advance that restarts playback.
	var next *track.Track
	var nextGen uint64
	if e.session.Current == nil {
		e.session.Generation++
		nextGen = e.session.Generation
		next = e.session.PopNext()
		e.session.Current = next
	}
	queue := e.queueCopyLocked()
	snap := e.session.Snapshot()
	e.mu.Unlock()

	zlog.Info().Msgf("radio: refilled queue: added=%d total=%d", len(tracks), len(queue))
	e.sink.OnQueueChanged(queue)
	if next != nil {
		e.sink.OnTrackChanged(next)
	}
	e.persist(snap)
	if next != nil {
		// A spawn failure is recorded and surfaced by startPlayback itself.
		_ = e.startPlayback(*next, nextGen)
	}
}

// persist saves a committed snapshot best-effort. Callers capture the snapshot
// in the same critical section as the transition; saves are serialized and a
// snapshot from an older generation is dropped. Failures are logged, never
// propagated.
func (e *Engine) persist(snap session.Snapshot) {
	if e.store == nil {
		return
	}
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if snap.Generation < e.lastSavedGen {
		return
	}
	e.lastSavedGen = snap.Generation
	if err := e.store.Save(snap); err != nil {
		zlog.Warn().Msgf("radio: failed to persist session (%s): %v", ErrorPersist, err)
	}
}

// queueCopyLocked returns a copy of the queue for event emission. Must be
// called with the lock held.
func (e *Engine) queueCopyLocked() []track.Track {
	queue := make([]track.Track, len(e.session.Queue))
	copy(queue, e.session.Queue)
	return queue
}
