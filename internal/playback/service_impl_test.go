package playback

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lmorel/chorus/internal/catalog"
	"github.com/lmorel/chorus/internal/notify"
	"github.com/lmorel/chorus/internal/power"
	"github.com/lmorel/chorus/internal/session"
	"github.com/lmorel/chorus/internal/settings"
	"github.com/lmorel/chorus/internal/shuffle"
	"github.com/lmorel/chorus/internal/sink"
	"github.com/lmorel/chorus/internal/timeline"
)

// fakeResolver is a controllable Resolver for tests. Tracks listed in
// failIDs fail resolution; gates block resolution until released.
type fakeResolver struct {
	mu       sync.Mutex
	failIDs  map[string]bool
	gates    map[string]chan struct{}
	lyrics   map[string]catalog.Lyric
	resolved []string
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		failIDs: make(map[string]bool),
		gates:   make(map[string]chan struct{}),
		lyrics:  make(map[string]catalog.Lyric),
	}
}

func (f *fakeResolver) ResolveURL(ctx context.Context, trackID, quality string) (*catalog.Resolution, error) {
	f.mu.Lock()
	gate := f.gates[trackID]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolved = append(f.resolved, trackID)
	if f.failIDs[trackID] {
		return nil, errors.New("resolution failed")
	}
	return &catalog.Resolution{
		URL:     "http://stream.local/" + trackID,
		TrackID: trackID,
		Quality: quality,
	}, nil
}

func (f *fakeResolver) FetchLyric(_ context.Context, trackID string) (*catalog.Lyric, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.lyrics[trackID]; ok {
		return &l, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeResolver) fail(id string) {
	f.mu.Lock()
	f.failIDs[id] = true
	f.mu.Unlock()
}

// gate makes resolution of id block until the returned release function is
// called.
func (f *fakeResolver) gate(id string) func() {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[id] = ch
	f.mu.Unlock()
	return func() { close(ch) }
}

// mockNotifier records desktop notifications.
type mockNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (m *mockNotifier) Notify(n notify.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fixture struct {
	svc       Service
	store     *session.Store
	sink      *sink.Mock
	resolver  *fakeResolver
	coord     *settings.Coordinator
	notifier  *mockNotifier
	inhibitor *power.MockInhibitor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	f := &fixture{
		store:     session.NewStore(),
		sink:      sink.NewMock(),
		resolver:  newFakeResolver(),
		notifier:  &mockNotifier{},
		inhibitor: power.NewMock(),
	}
	f.coord = settings.NewCoordinator(settings.NewMockStore(), settings.Defaults(), log)
	f.coord.SetDebounce(5 * time.Millisecond)
	f.store.SetProvider("tx")

	f.svc = New(Config{
		Store:         f.store,
		Catalog:       f.resolver,
		Sink:          f.sink,
		Notifier:      f.notifier,
		Inhibitor:     f.inhibitor,
		Settings:      f.coord,
		Log:           log,
		Walker:        shuffle.NewWithRand(rand.New(rand.NewPCG(7, 11))),
		AutoSkip:      true,
		AutoSkipDelay: 20 * time.Millisecond,
	})
	t.Cleanup(func() { f.svc.Close() })
	return f
}

func track(id string) timeline.Track {
	return timeline.Track{
		ID:       id,
		Title:    "title-" + id,
		Artist:   "artist-" + id,
		Provider: "tx",
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestPlaySingle_StartsPlayback(t *testing.T) {
	f := newFixture(t)

	f.svc.PlaySingle(track("a"))

	waitFor(t, "playing", func() bool { return f.svc.State().Playing })

	st := f.svc.State()
	if st.Current == nil || st.Current.ID != "a" {
		t.Fatalf("current = %v, want track a", st.Current)
	}
	if st.Loading {
		t.Error("Loading should be false after start")
	}
	if f.sink.Source() != "http://stream.local/a" {
		t.Errorf("sink source = %q, want resolved url", f.sink.Source())
	}
	if f.svc.QueueIndex() != 0 {
		t.Errorf("queue index = %d, want 0", f.svc.QueueIndex())
	}
}

func TestPlaySingle_OptimisticMirror(t *testing.T) {
	f := newFixture(t)
	release := f.resolver.gate("a")

	f.svc.PlaySingle(track("a"))

	// Before resolution completes the track is already mirrored as loading.
	st := f.svc.State()
	if st.Current == nil || st.Current.ID != "a" {
		t.Fatalf("current = %v, want optimistic track a", st.Current)
	}
	if !st.Loading {
		t.Error("Loading should be true while resolving")
	}
	if st.Playing {
		t.Error("Playing should be false while resolving")
	}

	release()
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })
}

func TestPlay_StaleResolutionDiscarded(t *testing.T) {
	f := newFixture(t)
	release := f.resolver.gate("a")

	f.svc.PlaySingle(track("a"))
	f.svc.PlaySingle(track("b"))

	waitFor(t, "track b playing", func() bool {
		st := f.svc.State()
		return st.Playing && st.Current != nil && st.Current.ID == "b"
	})

	// Let the stale resolution of a complete; it must not clobber b.
	release()
	time.Sleep(20 * time.Millisecond)

	st := f.svc.State()
	if st.Current == nil || st.Current.ID != "b" {
		t.Fatalf("current = %v, want track b after stale discard", st.Current)
	}
	if f.sink.Source() != "http://stream.local/b" {
		t.Errorf("sink source = %q, stale resolution leaked through", f.sink.Source())
	}
}

func TestPlay_FailureSetsErrorAndNotifies(t *testing.T) {
	f := newFixture(t)
	f.resolver.fail("a")

	f.svc.PlaySingle(track("a"))

	waitFor(t, "error state", func() bool { return f.svc.State().Err != "" })

	st := f.svc.State()
	if st.Playing {
		t.Error("Playing should be false after failure")
	}
	if st.Loading {
		t.Error("Loading should be false after failure")
	}
	waitFor(t, "notification", func() bool { return f.notifier.count() > 0 })
}

// A play superseded while its download is still in flight must not touch
// the sink after the newer track has started.
func TestPlay_StaleLoadDiscarded(t *testing.T) {
	f := newFixture(t)
	f.sink.SetDuration(3 * time.Minute)
	release := f.sink.GateLoad("http://stream.local/a")

	f.svc.PlaySingle(track("a"))
	waitFor(t, "load of a requested", func() bool {
		for _, url := range f.sink.LoadCalls() {
			if url == "http://stream.local/a" {
				return true
			}
		}
		return false
	})

	f.svc.PlaySingle(track("b"))
	waitFor(t, "track b playing", func() bool {
		st := f.svc.State()
		return st.Playing && st.Current != nil && st.Current.ID == "b"
	})

	f.svc.Seek(42 * time.Second)
	release()
	time.Sleep(20 * time.Millisecond) // let the superseded goroutine settle

	if got := f.sink.Source(); got != "http://stream.local/b" {
		t.Errorf("sink source = %q, want track b's stream", got)
	}
	if got := f.sink.Position(); got != 42*time.Second {
		t.Errorf("sink position = %v, want 42s untouched by the stale load", got)
	}
	if msg := f.svc.State().Err; msg != "" {
		t.Errorf("error state = %q, want none from the superseded load", msg)
	}
	if got := f.sink.PlayCalls(); got != 1 {
		t.Errorf("play calls = %d, want only track b's", got)
	}
}

// A skip timer that fires just as the user picks another track must not
// advance off the user's selection, even if it already passed its staleness
// check before the play took the lock.
func TestAutoSkip_YieldsToInterveningPlay(t *testing.T) {
	f := newFixture(t)

	f.svc.PlayList([]timeline.Track{track("a"), track("b"), track("c")}, 0)
	waitFor(t, "track a playing", func() bool { return f.svc.State().Playing })

	impl := f.svc.(*serviceImpl)
	impl.mu.Lock()
	g := impl.gen
	impl.mu.Unlock()

	f.svc.PlayAt(2)
	waitFor(t, "track c playing", func() bool {
		st := f.svc.State()
		return st.Playing && st.Current != nil && st.Current.ID == "c"
	})

	// The skip validated against g before PlayAt landed; replaying it now
	// must be a no-op.
	impl.advanceIfCurrent(false, g)

	if got := f.svc.QueueIndex(); got != 2 {
		t.Errorf("queue index = %d, want 2 (stale skip advanced the timeline)", got)
	}
	if cur := f.svc.CurrentTrack(); cur == nil || cur.ID != "c" {
		t.Errorf("current = %v, want the user's track c", cur)
	}
}

func TestPlay_AutoSkipAdvancesAfterFailure(t *testing.T) {
	f := newFixture(t)
	f.resolver.fail("a")

	f.svc.PlayList([]timeline.Track{track("a"), track("b")}, 0)

	waitFor(t, "auto-skip to b", func() bool {
		st := f.svc.State()
		return st.Playing && st.Current != nil && st.Current.ID == "b"
	})
	if f.svc.QueueIndex() != 1 {
		t.Errorf("queue index = %d, want 1", f.svc.QueueIndex())
	}
}

func TestPlay_AutoSkipCanceledByStop(t *testing.T) {
	f := newFixture(t)
	f.resolver.fail("a")

	f.svc.PlayList([]timeline.Track{track("a"), track("b")}, 0)
	waitFor(t, "error state", func() bool { return f.svc.State().Err != "" })

	f.svc.Stop()
	time.Sleep(60 * time.Millisecond) // well past the skip delay

	st := f.svc.State()
	if st.Playing {
		t.Error("auto-skip fired after Stop")
	}
	if cur := f.svc.CurrentTrack(); cur == nil || cur.ID != "a" {
		t.Errorf("current = %v, auto-skip moved the timeline after Stop", cur)
	}
}

func TestNaturalEnd_OrderAdvances(t *testing.T) {
	f := newFixture(t)

	f.svc.PlayList([]timeline.Track{track("a"), track("b")}, 0)
	waitFor(t, "track a playing", func() bool {
		st := f.svc.State()
		return st.Playing && st.Current != nil && st.Current.ID == "a"
	})

	f.sink.SimulateFinished()

	waitFor(t, "track b playing", func() bool {
		st := f.svc.State()
		return st.Playing && st.Current != nil && st.Current.ID == "b"
	})
}

func TestNaturalEnd_SingleReplays(t *testing.T) {
	f := newFixture(t)
	f.svc.SetMode(session.ModeSingle)

	f.svc.PlaySingle(track("a"))
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })
	before := f.sink.PlayCalls()

	f.sink.SimulateFinished()

	waitFor(t, "replay", func() bool { return f.sink.PlayCalls() > before })
	if cur := f.svc.CurrentTrack(); cur == nil || cur.ID != "a" {
		t.Errorf("current = %v, want track a replayed", cur)
	}
}

func TestNaturalEnd_ExhaustedStops(t *testing.T) {
	f := newFixture(t)

	f.svc.PlaySingle(track("a"))
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })

	f.sink.SimulateFinished()

	waitFor(t, "stopped", func() bool { return !f.svc.State().Playing })
	if cur := f.svc.CurrentTrack(); cur == nil || cur.ID != "a" {
		t.Errorf("current = %v, timeline should stay intact at the end", cur)
	}
}

func TestNaturalEnd_SupplierSplices(t *testing.T) {
	f := newFixture(t)
	f.svc.SetNeedMoreTracks(func() []timeline.Track {
		return []timeline.Track{track("b"), track("c")}
	})

	f.svc.PlaySingle(track("a"))
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })

	f.sink.SimulateFinished()

	waitFor(t, "supplied track b playing", func() bool {
		st := f.svc.State()
		return st.Playing && st.Current != nil && st.Current.ID == "b"
	})
	if f.svc.QueueLen() != 3 {
		t.Errorf("queue len = %d, want 3 after splice", f.svc.QueueLen())
	}
}

func TestNaturalEnd_ShuffleWalksWholeQueue(t *testing.T) {
	f := newFixture(t)

	f.svc.PlayList([]timeline.Track{track("a"), track("b"), track("c")}, 0)
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })
	f.svc.SetMode(session.ModeShuffle)

	seen := map[string]bool{"a": true}
	for i := 0; i < 2; i++ {
		prev := f.svc.CurrentTrack().ID
		f.sink.SimulateFinished()
		waitFor(t, "next shuffle track", func() bool {
			st := f.svc.State()
			return st.Playing && st.Current != nil && st.Current.ID != prev
		})
		seen[f.svc.CurrentTrack().ID] = true
	}
	if len(seen) != 3 {
		t.Errorf("visited %d distinct tracks, want 3 (no repeats)", len(seen))
	}

	// Pool exhausted: the next natural end stops playback.
	f.sink.SimulateFinished()
	waitFor(t, "stopped after exhaustion", func() bool { return !f.svc.State().Playing })
}

func TestToggle_PauseResume(t *testing.T) {
	f := newFixture(t)

	f.svc.PlaySingle(track("a"))
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })

	f.svc.Toggle()
	if f.svc.State().Playing {
		t.Error("Playing should be false after pause")
	}
	if f.sink.State() != sink.Paused {
		t.Errorf("sink state = %v, want Paused", f.sink.State())
	}

	f.svc.Toggle()
	if !f.svc.State().Playing {
		t.Error("Playing should be true after resume")
	}
}

func TestToggle_RevivesRestoredTrack(t *testing.T) {
	f := newFixture(t)

	snap := settings.QueueSnapshot{
		Tracks:       recordsFromTracks([]timeline.Track{track("a"), track("b")}),
		CurrentIndex: 1,
		CurrentID:    "b",
	}
	f.coord.Update(settings.Update{QueueProvider: "tx", Queue: &snap}, false)

	f.svc.Restore("tx")

	st := f.svc.State()
	if !st.SettingsRestored {
		t.Fatal("SettingsRestored should be true")
	}
	if st.Playing {
		t.Fatal("restore must not start playback")
	}
	if st.Current == nil || st.Current.ID != "b" {
		t.Fatalf("current = %v, want restored track b", st.Current)
	}

	// The sink has no source: toggle goes through the full play path.
	f.svc.Toggle()
	waitFor(t, "revived playback", func() bool { return f.svc.State().Playing })
	if f.sink.Source() != "http://stream.local/b" {
		t.Errorf("sink source = %q, want resolved url for b", f.sink.Source())
	}
}

func TestSeek_ClampsAndIgnoresUnknownDuration(t *testing.T) {
	f := newFixture(t)

	// Duration unknown: seek is a no-op.
	f.svc.Seek(30 * time.Second)
	if got := f.sink.Position(); got != 0 {
		t.Errorf("position = %v, want 0 (unknown duration)", got)
	}

	f.sink.SetDuration(3 * time.Minute)

	f.svc.Seek(-5 * time.Second)
	if got := f.sink.Position(); got != 0 {
		t.Errorf("position = %v, want clamped to 0", got)
	}

	f.svc.Seek(10 * time.Minute)
	if got := f.sink.Position(); got != 3*time.Minute {
		t.Errorf("position = %v, want clamped to duration", got)
	}
}

func TestStop_ResetsTransportKeepsTimeline(t *testing.T) {
	f := newFixture(t)

	f.svc.PlayList([]timeline.Track{track("a"), track("b")}, 0)
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })

	f.svc.Stop()

	st := f.svc.State()
	if st.Playing || st.Loading {
		t.Error("transport should be reset after Stop")
	}
	if st.Err != "" {
		t.Errorf("Err = %q, want empty", st.Err)
	}
	if f.sink.Source() != "" {
		t.Errorf("sink source = %q, want cleared", f.sink.Source())
	}
	if f.svc.QueueLen() != 2 {
		t.Errorf("queue len = %d, Stop must not touch the timeline", f.svc.QueueLen())
	}
}

func TestSetVolume_AppliesAndPersists(t *testing.T) {
	f := newFixture(t)

	f.svc.SetVolume(0.4)

	if got := f.svc.State().Volume; got != 0.4 {
		t.Errorf("volume = %v, want 0.4", got)
	}
	if got := f.sink.Level(); got != 0.4 {
		t.Errorf("sink level = %v, want 0.4", got)
	}
	if got := f.coord.Cache().Volume; got != 0.4 {
		t.Errorf("cached volume = %v, want 0.4", got)
	}
}

func TestSetQuality_RejectsUnknownTier(t *testing.T) {
	f := newFixture(t)

	f.svc.SetQuality(session.QualityHigh)
	f.svc.SetQuality(session.Quality("lossless++"))

	if got := f.svc.State().Quality; got != session.QualityHigh {
		t.Errorf("quality = %v, want high", got)
	}
}

func TestSetProvider_IsolatesQueues(t *testing.T) {
	f := newFixture(t)

	f.svc.PlayList([]timeline.Track{track("a"), track("b")}, 0)
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })

	f.svc.SetProvider("wy")

	st := f.svc.State()
	if st.Playing {
		t.Error("provider switch must stop playback")
	}
	if st.Provider != "wy" {
		t.Errorf("provider = %q, want wy", st.Provider)
	}
	if f.svc.QueueLen() != 0 {
		t.Errorf("queue len = %d, want empty queue for new provider", f.svc.QueueLen())
	}

	// The outgoing queue was snapshotted; switching back restores it.
	f.svc.SetProvider("tx")
	if f.svc.QueueLen() != 2 {
		t.Fatalf("queue len = %d, want 2 restored tracks", f.svc.QueueLen())
	}
	if cur := f.svc.CurrentTrack(); cur == nil || cur.ID != "a" {
		t.Errorf("current = %v, want reconciled track a", cur)
	}
}

func TestPowerEdges(t *testing.T) {
	f := newFixture(t)

	f.svc.PlaySingle(track("a"))
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })
	if f.inhibitor.InhibitCount() != 1 {
		t.Errorf("inhibit count = %d, want 1", f.inhibitor.InhibitCount())
	}

	f.svc.Toggle() // pause
	if f.inhibitor.RestoreCount() != 1 {
		t.Errorf("restore count = %d, want 1", f.inhibitor.RestoreCount())
	}

	f.svc.Toggle() // resume
	if f.inhibitor.InhibitCount() != 2 {
		t.Errorf("inhibit count = %d, want 2", f.inhibitor.InhibitCount())
	}

	// Pausing again must not release twice.
	f.svc.Toggle()
	f.svc.Toggle()
	f.svc.Stop()
	if f.inhibitor.Active() {
		t.Error("inhibition still active after Stop")
	}
}

func TestRemoveFromQueue_GuardsHistory(t *testing.T) {
	f := newFixture(t)

	f.svc.PlayList([]timeline.Track{track("a"), track("b"), track("c")}, 1)
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })

	f.svc.RemoveFromQueue(0) // history
	f.svc.RemoveFromQueue(1) // current
	if f.svc.QueueLen() != 3 {
		t.Errorf("queue len = %d, history/current removal must be a no-op", f.svc.QueueLen())
	}

	f.svc.RemoveFromQueue(2)
	if f.svc.QueueLen() != 2 {
		t.Errorf("queue len = %d, want 2 after removing future entry", f.svc.QueueLen())
	}
}

func TestAddToQueue_StartsWhenIdle(t *testing.T) {
	f := newFixture(t)

	f.svc.AddToQueue([]timeline.Track{track("a"), track("b")})

	waitFor(t, "playing first appended track", func() bool {
		st := f.svc.State()
		return st.Playing && st.Current != nil && st.Current.ID == "a"
	})

	// While playing, appends queue silently.
	before := f.sink.PlayCalls()
	f.svc.AddToQueue([]timeline.Track{track("c")})
	if f.svc.QueueLen() != 3 {
		t.Errorf("queue len = %d, want 3", f.svc.QueueLen())
	}
	if f.sink.PlayCalls() != before {
		t.Error("append while playing must not restart playback")
	}
}

func TestLyric_LoadedAfterStart(t *testing.T) {
	f := newFixture(t)
	f.resolver.mu.Lock()
	f.resolver.lyrics["a"] = catalog.Lyric{TrackID: "a", Text: "[00:01]hello", Translation: "[00:01]bonjour"}
	f.resolver.mu.Unlock()

	f.svc.PlaySingle(track("a"))

	waitFor(t, "lyric", func() bool {
		st := f.svc.State()
		return st.Lyric != nil && st.Lyric.TrackID == "a"
	})
	if got := f.svc.State().Lyric.Translation; got != "[00:01]bonjour" {
		t.Errorf("translation = %q, want stored translation", got)
	}
}

func TestMutatingOpNotifiesOnce(t *testing.T) {
	f := newFixture(t)

	var notifies atomic.Int64
	unsub := f.svc.Subscribe(func() { notifies.Add(1) })
	defer unsub()

	f.svc.SetVolume(0.7)

	if got := notifies.Load(); got != 1 {
		t.Errorf("notify count = %d, want exactly 1 for a synchronous op", got)
	}
}

func TestQueuePersistedOnMutation(t *testing.T) {
	f := newFixture(t)

	f.svc.PlayList([]timeline.Track{track("a"), track("b")}, 0)
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })

	snap := f.coord.Cache().Queue("tx")
	if len(snap.Tracks) != 2 {
		t.Fatalf("snapshot tracks = %d, want 2", len(snap.Tracks))
	}
	if snap.CurrentID != "a" {
		t.Errorf("snapshot current id = %q, want a", snap.CurrentID)
	}
}

func TestQueuePersist_SuppressedWhenSavingDisabled(t *testing.T) {
	f := newFixture(t)
	f.store.SetSaveEnabled(false)

	f.svc.PlayList([]timeline.Track{track("a"), track("b")}, 0)
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })

	if snap := f.coord.Cache().Queue("tx"); len(snap.Tracks) != 0 {
		t.Errorf("queue snapshot staged despite saving disabled: %d tracks", len(snap.Tracks))
	}
}

func TestReset_TearsDownSession(t *testing.T) {
	f := newFixture(t)

	f.svc.PlayList([]timeline.Track{track("a"), track("b")}, 0)
	waitFor(t, "playing", func() bool { return f.svc.State().Playing })

	var notified atomic.Int64
	f.svc.Subscribe(func() { notified.Add(1) })

	if err := f.svc.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	st := f.svc.State()
	if st.Playing || st.Current != nil {
		t.Error("session should be back at defaults after Reset")
	}
	if f.svc.QueueLen() != 0 {
		t.Errorf("queue len = %d, want 0", f.svc.QueueLen())
	}
	if f.coord.Enabled() {
		t.Error("durable writes should be disabled after Reset")
	}

	// Subscribers were dropped with everything else.
	f.svc.SetVolume(0.2)
	if notified.Load() != 0 {
		t.Errorf("dropped subscriber was notified %d times", notified.Load())
	}
}

func TestGuarded_RecoversPanicIntoErrorState(t *testing.T) {
	f := newFixture(t)
	impl := f.svc.(*serviceImpl)

	impl.guarded(func() { panic(fmt.Errorf("boom")) })

	st := f.svc.State()
	if st.Err == "" {
		t.Error("Err should be set after a recovered panic")
	}
	if st.Playing {
		t.Error("Playing should be false after a recovered panic")
	}
}
