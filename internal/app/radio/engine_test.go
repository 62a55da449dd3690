package radio

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mizikori/airwave/internal/app/playback"
	"github.com/mizikori/airwave/internal/app/supply"
	"github.com/mizikori/airwave/internal/domain/session"
	"github.com/mizikori/airwave/internal/domain/track"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeHandle is a playback handle whose completion the test controls.
type fakeHandle struct {
	generation uint64
	done       chan playback.ExitReason
	closeOnce  sync.Once
}

func newFakeHandle(generation uint64) *fakeHandle {
	return &fakeHandle{generation: generation, done: make(chan playback.ExitReason, 1)}
}

func (h *fakeHandle) Generation() uint64               { return h.generation }
func (h *fakeHandle) Done() <-chan playback.ExitReason { return h.done }

func (h *fakeHandle) finish() {
	h.closeOnce.Do(func() {
		h.done <- playback.ReasonFinished
		close(h.done)
	})
}

func (h *fakeHandle) crash() {
	h.closeOnce.Do(func() {
		h.done <- playback.ReasonCrashed
		close(h.done)
	})
}

// fakePlayer records starts and stops. Stops do not close the handle's done
// channel, so tests can deliver late completions and exercise the stale
// notification paths.
type fakePlayer struct {
	mu       sync.Mutex
	handles  []*fakeHandle
	started  []track.Track
	stopped  []Handle
	startErr error
	overlap  bool // a second process was started while one was still live
}

func (p *fakePlayer) Start(t track.Track, generation uint64) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.startErr != nil {
		return nil, p.startErr
	}
	if len(p.handles) > 0 && !p.isEndedLocked(p.handles[len(p.handles)-1]) {
		p.overlap = true
	}
	h := newFakeHandle(generation)
	p.handles = append(p.handles, h)
	p.started = append(p.started, t)
	return h, nil
}

func (p *fakePlayer) Stop(h Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = append(p.stopped, h)
}

func (p *fakePlayer) isEndedLocked(h *fakeHandle) bool {
	for _, s := range p.stopped {
		if s == Handle(h) {
			return true
		}
	}
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (p *fakePlayer) handle(i int) *fakeHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handles[i]
}

func (p *fakePlayer) startCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.started)
}

func (p *fakePlayer) startedTrack(i int) track.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started[i]
}

func (p *fakePlayer) hadOverlap() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overlap
}

// fakeSupplier serves pre-built batches, one per Fetch call.
type fakeSupplier struct {
	mu      sync.Mutex
	batches [][]track.Track
	err     error
	calls   []supply.Criteria
}

func (s *fakeSupplier) Fetch(ctx context.Context, criteria supply.Criteria) ([]track.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, criteria)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.batches) == 0 {
		return []track.Track{}, nil
	}
	b := s.batches[0]
	s.batches = s.batches[1:]
	return b, nil
}

func (s *fakeSupplier) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *fakeSupplier) call(i int) supply.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[i]
}

// recordSink records emitted events.
type recordSink struct {
	mu           sync.Mutex
	trackChanges []*track.Track
	queueChanges [][]track.Track
	errorKinds   []ErrorKind
}

func (s *recordSink) OnTrackChanged(t *track.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackChanges = append(s.trackChanges, t)
}

func (s *recordSink) OnQueueChanged(queue []track.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queueChanges = append(s.queueChanges, queue)
}

func (s *recordSink) OnError(kind ErrorKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorKinds = append(s.errorKinds, kind)
}

func (s *recordSink) kinds() []ErrorKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ErrorKind{}, s.errorKinds...)
}

// fakeStore keeps the latest snapshot in memory.
type fakeStore struct {
	mu    sync.Mutex
	snap  session.Snapshot
	saves int
	err   error
}

func (s *fakeStore) Save(snap session.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.snap = snap
	s.saves++
	return nil
}

func (s *fakeStore) Load() (session.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, nil
}

func makeTracks(prefix string, n int) []track.Track {
	tracks := make([]track.Track, 0, n)
	for i := 0; i < n; i++ {
		tracks = append(tracks, track.Track{
			ID:       fmt.Sprintf("%s%d", prefix, i),
			Title:    fmt.Sprintf("Track %s%d", prefix, i),
			Artist:   "Artist",
			Duration: 3 * time.Minute,
		})
	}
	return tracks
}

func testConfig() Config {
	return Config{InitialFetchCount: 20, RefillThreshold: 5, RefillFetchCount: 15}
}

func seedTrack() track.Track {
	return track.Track{ID: "seed", Title: "Seed Track", Artist: "Seeder"}
}

func TestEngine_StartRadio_InitialBatch(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	e := NewEngine(player, supplier, nil, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))

	snap := e.Status()
	assert.Equal(t, session.StatusActive, snap.Status)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "t0", snap.Current.ID)
	assert.Len(t, snap.Queue, 19)
	assert.Equal(t, uint64(1), snap.Generation)

	require.Equal(t, 1, player.startCount())
	assert.Equal(t, "t0", player.startedTrack(0).ID)

	// The initial fetch excludes the seed itself.
	assert.True(t, supplier.call(0).ExcludeIDs["seed"])
	assert.Equal(t, 20, supplier.call(0).Count)
}

func TestEngine_StartRadio_FetchFailureStaysActive(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{err: errors.New("feed down")}
	sink := &recordSink{}
	e := NewEngine(player, supplier, nil, sink, testConfig())
	defer e.Close()

	// Fetch failure is reported through the sink, not returned.
	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))

	snap := e.Status()
	assert.Equal(t, session.StatusActive, snap.Status)
	assert.Nil(t, snap.Current)
	assert.Empty(t, snap.Queue)
	assert.Equal(t, 0, player.startCount())
	assert.Equal(t, []ErrorKind{ErrorSupply}, sink.kinds())
}

func TestEngine_SkipAdvances(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	e := NewEngine(player, supplier, nil, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))
	require.NoError(t, e.Skip(context.Background()))

	snap := e.Status()
	assert.Equal(t, session.StatusActive, snap.Status)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "t1", snap.Current.ID)
	assert.Len(t, snap.Queue, 18)
	assert.Equal(t, uint64(2), snap.Generation)

	assert.Equal(t, 2, player.startCount())
	assert.False(t, player.hadOverlap(), "at most one process may be live")
}

func TestEngine_SkipWhileInactive(t *testing.T) {
	e := NewEngine(&fakePlayer{}, &fakeSupplier{}, nil, nil, testConfig())
	defer e.Close()

	assert.ErrorIs(t, e.Skip(context.Background()), ErrNotActive)
}

func TestEngine_RefillThreshold(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{
		makeTracks("t", 20),
		makeTracks("r", 15),
	}}
	e := NewEngine(player, supplier, nil, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))

	// 14 skips leave the queue at 5, still at the threshold: no refill.
	for i := 0; i < 14; i++ {
		require.NoError(t, e.Skip(context.Background()))
	}
	assert.Len(t, e.Status().Queue, 5)
	assert.Equal(t, 1, supplier.callCount())

	// The 15th pop drops the queue to 4 and triggers exactly one refill.
	require.NoError(t, e.Skip(context.Background()))
	require.Eventually(t, func() bool {
		return len(e.Status().Queue) == 19
	}, 2*time.Second, 5*time.Millisecond, "refill should append 15 tracks to the 4 remaining")

	assert.Equal(t, 2, supplier.callCount())
	assert.Equal(t, 15, supplier.call(1).Count)

	// The next advance pops from the refilled queue.
	require.NoError(t, e.Skip(context.Background()))
	assert.Len(t, e.Status().Queue, 18)
	assert.Equal(t, 2, supplier.callCount())
}

func TestEngine_RefillFailureRetriedOnNextCrossing(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	sink := &recordSink{}
	e := NewEngine(player, supplier, nil, sink, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))

	supplier.mu.Lock()
	supplier.err = errors.New("feed down")
	supplier.mu.Unlock()

	for i := 0; i < 15; i++ {
		require.NoError(t, e.Skip(context.Background()))
	}
	// The sink error is emitted after the failed refill is fully unwound, so
	// the next threshold crossing is free to re-request.
	require.Eventually(t, func() bool {
		return len(sink.kinds()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, supplier.callCount())

	// The failed refill left the queue short; the next pop crosses the
	// threshold again and re-requests.
	supplier.mu.Lock()
	supplier.err = nil
	supplier.batches = [][]track.Track{makeTracks("r", 15)}
	supplier.mu.Unlock()

	require.NoError(t, e.Skip(context.Background()))
	require.Eventually(t, func() bool {
		return len(e.Status().Queue) == 3+15
	}, 2*time.Second, 5*time.Millisecond)

	assert.Contains(t, sink.kinds(), ErrorSupply)
}

func TestEngine_RefillResumesPlaybackAfterQueueDrained(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{
		makeTracks("t", 1),
		makeTracks("r", 15),
	}}
	e := NewEngine(player, supplier, nil, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))
	require.Equal(t, 1, player.startCount())

	// The only track finishes with nothing queued: the session waits Active
	// with no current track while the refill is in flight. Once the batch
	// lands, playback must restart on its own.
	player.handle(0).finish()

	require.Eventually(t, func() bool {
		snap := e.Status()
		return snap.Current != nil && snap.Current.ID == "r0"
	}, 2*time.Second, 5*time.Millisecond, "refill landing on a drained session should restart playback")

	snap := e.Status()
	assert.Equal(t, session.StatusActive, snap.Status)
	assert.Len(t, snap.Queue, 14)
	assert.Equal(t, 2, player.startCount())
	assert.False(t, player.hadOverlap())
}

func TestEngine_PauseResumePreservesState(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	e := NewEngine(player, supplier, nil, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))
	before := e.Status()

	require.NoError(t, e.PauseAll())

	paused := e.Status()
	assert.Equal(t, session.StatusPaused, paused.Status)
	assert.Equal(t, *before.Current, *paused.Current)
	assert.Equal(t, before.Queue, paused.Queue)
	assert.Greater(t, paused.Generation, before.Generation)

	require.NoError(t, e.Resume(context.Background()))

	resumed := e.Status()
	assert.Equal(t, session.StatusActive, resumed.Status)
	assert.Equal(t, *before.Current, *resumed.Current, "resume replays the exact pre-pause track")
	assert.Equal(t, before.Queue, resumed.Queue, "queue order survives a pause cycle")

	// The preserved track is replayed, not a fresh advance.
	require.Equal(t, 2, player.startCount())
	assert.Equal(t, before.Current.ID, player.startedTrack(1).ID)
}

func TestEngine_ResumeWhileActiveIsNoop(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	e := NewEngine(player, supplier, nil, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))
	before := e.Status()

	require.NoError(t, e.Resume(context.Background()))

	after := e.Status()
	assert.Equal(t, before.Generation, after.Generation)
	assert.Equal(t, *before.Current, *after.Current)
	assert.Equal(t, before.Queue, after.Queue)
	assert.Equal(t, 1, player.startCount())
}

func TestEngine_ResumeWithoutSession(t *testing.T) {
	e := NewEngine(&fakePlayer{}, &fakeSupplier{}, nil, nil, testConfig())
	defer e.Close()

	assert.ErrorIs(t, e.Resume(context.Background()), ErrNotStarted)
}

func TestEngine_PauseThenStopClearsOnlyAtStop(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	e := NewEngine(player, supplier, nil, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))
	require.NoError(t, e.PauseAll())

	paused := e.Status()
	assert.Equal(t, session.StatusPaused, paused.Status)
	assert.Len(t, paused.Queue, 19, "pause must not touch the queue")
	assert.NotNil(t, paused.Current)

	require.NoError(t, e.StopRadio())

	stopped := e.Status()
	assert.Equal(t, session.StatusInactive, stopped.Status)
	assert.Empty(t, stopped.Queue)
	assert.Nil(t, stopped.Current)

	// Stopping an inactive session is a no-op.
	genBefore := e.Status().Generation
	require.NoError(t, e.StopRadio())
	assert.Equal(t, genBefore, e.Status().Generation)
}

func TestEngine_AutoAdvanceOnNaturalFinish(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	e := NewEngine(player, supplier, nil, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))

	player.handle(0).finish()

	require.Eventually(t, func() bool {
		snap := e.Status()
		return snap.Current != nil && snap.Current.ID == "t1"
	}, 2*time.Second, 5*time.Millisecond, "watcher should auto-advance to the next track")

	snap := e.Status()
	assert.Equal(t, session.StatusActive, snap.Status)
	assert.Len(t, snap.Queue, 18)
	assert.False(t, player.hadOverlap())
}

func TestEngine_StaleCompletionNeverMutates(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	e := NewEngine(player, supplier, nil, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))
	require.NoError(t, e.Skip(context.Background()))
	before := e.Status()

	// The first track's completion arrives after the skip already advanced
	// the session; its generation is stale and must be discarded.
	player.handle(0).finish()

	time.Sleep(100 * time.Millisecond)
	after := e.Status()
	assert.Equal(t, before.Generation, after.Generation)
	assert.Equal(t, *before.Current, *after.Current)
	assert.Equal(t, before.Queue, after.Queue)
}

func TestEngine_CompletionAfterPauseDoesNotAdvance(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	e := NewEngine(player, supplier, nil, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))
	require.NoError(t, e.PauseAll())
	before := e.Status()

	// The process completion races the pause. The pause already bumped the
	// generation, so the watcher must treat this as stale.
	player.handle(0).finish()

	time.Sleep(100 * time.Millisecond)
	after := e.Status()
	assert.Equal(t, session.StatusPaused, after.Status)
	assert.Equal(t, *before.Current, *after.Current)
	assert.Equal(t, before.Queue, after.Queue)
}

func TestEngine_CrashDrivesSessionToPaused(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	sink := &recordSink{}
	e := NewEngine(player, supplier, nil, sink, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))

	player.handle(0).crash()

	require.Eventually(t, func() bool {
		return e.Status().Status == session.StatusPaused
	}, 2*time.Second, 5*time.Millisecond)

	snap := e.Status()
	require.NotNil(t, snap.Current, "crash preserves the current track for resume")
	assert.Equal(t, "t0", snap.Current.ID)
	assert.Len(t, snap.Queue, 19)
	assert.Error(t, e.LastError())
	assert.Equal(t, []ErrorKind{ErrorCrash}, sink.kinds())
}

func TestEngine_SpawnErrorPausesSession(t *testing.T) {
	player := &fakePlayer{startErr: errors.New("mpv: not found")}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	sink := &recordSink{}
	e := NewEngine(player, supplier, nil, sink, testConfig())
	defer e.Close()

	err := e.StartRadio(context.Background(), seedTrack())
	require.Error(t, err)

	snap := e.Status()
	assert.Equal(t, session.StatusPaused, snap.Status)
	assert.Error(t, e.LastError())
	assert.Equal(t, []ErrorKind{ErrorSpawn}, sink.kinds())
}

func TestEngine_StartRadioRestartsExistingSession(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{
		makeTracks("a", 20),
		makeTracks("b", 20),
	}}
	e := NewEngine(player, supplier, nil, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), track.Track{ID: "seed1"}))
	firstGen := e.Status().Generation

	require.NoError(t, e.StartRadio(context.Background(), track.Track{ID: "seed2"}))

	snap := e.Status()
	assert.Equal(t, session.StatusActive, snap.Status)
	assert.Equal(t, "seed2", snap.Seed.ID)
	assert.Equal(t, "b0", snap.Current.ID)
	assert.Greater(t, snap.Generation, firstGen)
}

func TestEngine_GenerationIsNonDecreasing(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	e := NewEngine(player, supplier, nil, nil, testConfig())
	defer e.Close()

	last := e.Status().Generation
	step := func() {
		g := e.Status().Generation
		assert.GreaterOrEqual(t, g, last)
		last = g
	}

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))
	step()
	require.NoError(t, e.Skip(context.Background()))
	step()
	require.NoError(t, e.PauseAll())
	step()
	require.NoError(t, e.Resume(context.Background()))
	step()
	require.NoError(t, e.StopRadio())
	step()
}

func TestEngine_PersistsCommittedTransitions(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	store := &fakeStore{}
	e := NewEngine(player, supplier, store, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))
	require.NoError(t, e.PauseAll())
	require.NoError(t, e.StopRadio())

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.GreaterOrEqual(t, store.saves, 3)
	assert.Equal(t, session.StatusInactive, store.snap.Status)
}

func TestEngine_PersistDropsStaleSnapshots(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	store := &fakeStore{}
	e := NewEngine(player, supplier, store, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))
	require.NoError(t, e.Skip(context.Background()))

	// A snapshot captured at an older generation that arrives late must not
	// overwrite the newer saved state.
	e.persist(session.Snapshot{Status: session.StatusActive, Generation: 1})

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, uint64(2), store.snap.Generation)
}

func TestEngine_PersistFailureDoesNotBlockPlayback(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	store := &fakeStore{err: errors.New("disk full")}
	e := NewEngine(player, supplier, store, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))
	assert.Equal(t, session.StatusActive, e.Status().Status)
	assert.Equal(t, 1, player.startCount())
}

func TestEngine_RestoreLoadsPausedSession(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{}
	cur := track.Track{ID: "cur", Title: "Current"}
	store := &fakeStore{snap: session.Snapshot{
		Status:     session.StatusPaused,
		Seed:       track.Track{ID: "seed"},
		Current:    &cur,
		Queue:      makeTracks("q", 6),
		Generation: 42,
	}}
	e := NewEngine(player, supplier, store, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.Restore(context.Background()))

	snap := e.Status()
	assert.Equal(t, session.StatusPaused, snap.Status)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "cur", snap.Current.ID)
	assert.Len(t, snap.Queue, 6)
	assert.Equal(t, uint64(43), snap.Generation)

	// A plain Resume continues where the previous run stopped.
	require.NoError(t, e.Resume(context.Background()))
	assert.Equal(t, session.StatusActive, e.Status().Status)
	require.Equal(t, 1, player.startCount())
	assert.Equal(t, "cur", player.startedTrack(0).ID)
}

func TestEngine_RestoreIntoRunningSessionFails(t *testing.T) {
	player := &fakePlayer{}
	supplier := &fakeSupplier{batches: [][]track.Track{makeTracks("t", 20)}}
	store := &fakeStore{snap: session.Snapshot{Status: session.StatusPaused}}
	e := NewEngine(player, supplier, store, nil, testConfig())
	defer e.Close()

	require.NoError(t, e.StartRadio(context.Background(), seedTrack()))
	assert.Error(t, e.Restore(context.Background()))
}
