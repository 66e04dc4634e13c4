// Package playback orchestrates the playback session: track selection,
// transport control, mode-aware advancement, session persistence and the
// broadcast of state changes. It is the only component that drives the audio
// sink.
package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lmorel/chorus/internal/errmsg"
	"github.com/lmorel/chorus/internal/notify"
	"github.com/lmorel/chorus/internal/power"
	"github.com/lmorel/chorus/internal/session"
	"github.com/lmorel/chorus/internal/settings"
	"github.com/lmorel/chorus/internal/shuffle"
	"github.com/lmorel/chorus/internal/sink"
	"github.com/lmorel/chorus/internal/timeline"
)

const defaultSkipDelay = 3 * time.Second

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

// Config carries the service dependencies.
type Config struct {
	Store     *session.Store
	Catalog   Resolver
	Sink      sink.Interface
	Notifier  notify.Notifier
	Inhibitor power.Inhibitor
	Settings  *settings.Coordinator
	Log       logrus.FieldLogger

	// Walker overrides the shuffle walker, for deterministic tests.
	Walker *shuffle.Walker

	// AutoSkip moves on to the next track when a start fails.
	AutoSkip      bool
	AutoSkipDelay time.Duration
}

type serviceImpl struct {
	mu sync.Mutex

	store     *session.Store
	queue     *timeline.Timeline
	walker    *shuffle.Walker
	catalog   Resolver
	sink      sink.Interface
	notifier  notify.Notifier
	inhibitor power.Inhibitor
	settings  *settings.Coordinator
	log       logrus.FieldLogger

	needMore func() []timeline.Track

	// gen invalidates in-flight async starts; every new start or stop bumps
	// it, and late completions compare against it before touching state.
	// playCancel aborts the superseded start's context so a download still
	// in flight cannot touch the sink afterwards.
	gen        int64
	playCancel context.CancelFunc
	skipTimer  *time.Timer
	autoSkip   bool
	skipDelay  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// New creates a playback service and starts its event loop.
func New(cfg Config) Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &serviceImpl{
		store:     cfg.Store,
		queue:     timeline.New(),
		walker:    cfg.Walker,
		catalog:   cfg.Catalog,
		sink:      cfg.Sink,
		notifier:  cfg.Notifier,
		inhibitor: cfg.Inhibitor,
		settings:  cfg.Settings,
		log:       cfg.Log,
		autoSkip:  cfg.AutoSkip,
		skipDelay: cfg.AutoSkipDelay,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	if s.walker == nil {
		s.walker = shuffle.New()
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.notifier == nil {
		s.notifier = notify.NewStub()
	}
	if s.inhibitor == nil {
		s.inhibitor = power.NewStub()
	}
	if s.skipDelay <= 0 {
		s.skipDelay = defaultSkipDelay
	}
	go s.run()
	return s
}

// run is the service event loop: natural-end advancement and the progress
// mirror.
func (s *serviceImpl) run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-s.sink.FinishedChan():
			s.guarded(func() { s.advance(true) })
		case <-ticker.C:
			s.tickProgress()
		}
	}
}

// guarded recovers panics from async work into the error state instead of
// crashing the whole session.
func (s *serviceImpl) guarded(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("recovered panic in playback goroutine")
			s.mu.Lock()
			s.store.SetLoading(false)
			s.setPlayingLocked(false)
			s.store.SetErr(errmsg.Format(errmsg.OpPlaybackStart, fmt.Errorf("internal error: %v", r)))
			s.mu.Unlock()
			s.store.Notify()
		}
	}()
	fn()
}

func (s *serviceImpl) tickProgress() {
	s.mu.Lock()
	if !s.store.Playing() {
		s.mu.Unlock()
		return
	}
	s.store.SetProgress(s.sink.Position(), s.sink.Duration())
	s.mu.Unlock()
	s.store.Notify()
}

// PlaySingle plays t immediately, splicing it after the current track.
func (s *serviceImpl) PlaySingle(t timeline.Track) {
	s.mu.Lock()
	idx := s.queue.PlaySingle(t)
	if s.store.Mode() == session.ModeShuffle {
		s.walker.Resync(idx, s.queue.Len())
	}
	s.beginPlayLocked(idx)
	s.persistQueueLocked()
	s.mu.Unlock()
	s.store.Notify()
}

// PlayList merges ts into the timeline and starts at ts[start].
func (s *serviceImpl) PlayList(ts []timeline.Track, start int) {
	s.mu.Lock()
	idx := s.queue.PlayList(ts, start)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	if s.store.Mode() == session.ModeShuffle {
		s.walker.Resync(idx, s.queue.Len())
	}
	s.beginPlayLocked(idx)
	s.persistQueueLocked()
	s.mu.Unlock()
	s.store.Notify()
}

// PlayAt starts playback of the track at a timeline index.
func (s *serviceImpl) PlayAt(index int) {
	s.mu.Lock()
	if s.queue.Track(index) == nil {
		s.mu.Unlock()
		return
	}
	if s.store.Mode() == session.ModeShuffle {
		s.walker.JumpTo(index)
	}
	s.queue.SetCurrent(index)
	s.beginPlayLocked(index)
	s.persistQueueLocked()
	s.mu.Unlock()
	s.store.Notify()
}

// AddToQueue appends tracks to the tail of the future queue. With nothing
// playing, playback starts on the first appended track.
func (s *serviceImpl) AddToQueue(ts []timeline.Track) {
	s.mu.Lock()
	added, playIndex := s.queue.Append(ts)
	if len(added) == 0 {
		s.mu.Unlock()
		return
	}
	if s.store.Mode() == session.ModeShuffle {
		if playIndex >= 0 {
			s.walker.Resync(playIndex, s.queue.Len())
		} else {
			s.walker.OnAdd(added)
		}
	}
	if playIndex >= 0 {
		s.beginPlayLocked(playIndex)
	}
	s.persistQueueLocked()
	s.mu.Unlock()
	s.store.Notify()
}

// RemoveFromQueue removes a future-queue entry. History and the current
// track cannot be removed.
func (s *serviceImpl) RemoveFromQueue(index int) {
	s.mu.Lock()
	if !s.queue.RemoveAt(index) {
		s.mu.Unlock()
		return
	}
	if s.store.Mode() == session.ModeShuffle {
		s.walker.OnRemove(index)
	}
	s.persistQueueLocked()
	s.mu.Unlock()
	s.store.Notify()
}

// Next moves to the following track, honoring the play mode. A manual skip
// in single mode still advances.
func (s *serviceImpl) Next() {
	s.advance(false)
}

// Previous steps back through the timeline, or through the recorded walk in
// shuffle mode.
func (s *serviceImpl) Previous() {
	s.mu.Lock()
	if s.queue.Current() == nil {
		s.mu.Unlock()
		return
	}

	var idx int
	if s.store.Mode() == session.ModeShuffle {
		idx = s.walker.Prev()
	} else {
		idx = s.queue.CurrentIndex() - 1
		if idx < 0 {
			idx = 0
		}
	}
	if idx < 0 || !s.queue.SetCurrent(idx) {
		s.mu.Unlock()
		return
	}
	s.beginPlayLocked(idx)
	s.persistQueueLocked()
	s.mu.Unlock()
	s.store.Notify()
}

// Toggle pauses or resumes. A restored session whose current track was never
// loaded goes through the full play path instead.
func (s *serviceImpl) Toggle() {
	s.mu.Lock()
	switch s.sink.State() {
	case sink.Playing:
		s.sink.Pause()
		s.setPlayingLocked(false)
	case sink.Paused:
		s.sink.Resume()
		s.setPlayingLocked(true)
	default:
		idx := s.queue.CurrentIndex()
		if idx < 0 {
			s.mu.Unlock()
			return
		}
		s.beginPlayLocked(idx)
	}
	s.mu.Unlock()
	s.store.Notify()
}

// Seek moves the playhead, clamped to the track bounds. A no-op while the
// duration is still unknown.
func (s *serviceImpl) Seek(position time.Duration) {
	s.mu.Lock()
	total := s.sink.Duration()
	if total <= 0 {
		s.mu.Unlock()
		return
	}
	if position < 0 {
		position = 0
	}
	if position > total {
		position = total
	}
	s.sink.SetPosition(position)
	s.store.SetProgress(position, total)
	s.mu.Unlock()
	s.store.Notify()
}

// Stop halts the sink and resets the transport. The timeline is left intact
// so playback can resume later.
func (s *serviceImpl) Stop() {
	s.mu.Lock()
	s.invalidateLocked()
	s.cancelSkipLocked()
	s.needMore = nil
	s.sink.Stop()
	s.store.SetLoading(false)
	s.setPlayingLocked(false)
	s.store.SetErr("")
	s.store.SetProgress(0, 0)
	s.mu.Unlock()
	s.store.Notify()
}

// SetMode changes the play mode. Switching to shuffle rebuilds the walk
// around the current track.
func (s *serviceImpl) SetMode(m session.PlayMode) {
	if !m.Valid() {
		return
	}
	s.mu.Lock()
	if s.store.Mode() == m {
		s.mu.Unlock()
		return
	}
	s.store.SetMode(m)
	if m == session.ModeShuffle {
		s.walker.Resync(s.queue.CurrentIndex(), s.queue.Len())
	}
	mode := string(m)
	s.settings.Update(settings.Update{PlayMode: &mode}, true)
	s.mu.Unlock()
	s.store.Notify()
}

// SetVolume applies a clamped volume to the sink and persists it.
func (s *serviceImpl) SetVolume(v float64) {
	s.mu.Lock()
	s.store.SetVolume(v)
	level := s.store.Volume()
	s.sink.SetVolume(level)
	s.settings.Update(settings.Update{Volume: &level}, true)
	s.mu.Unlock()
	s.store.Notify()
}

// SetQuality changes the preferred quality tier for future resolutions.
func (s *serviceImpl) SetQuality(q session.Quality) {
	switch q {
	case session.QualityAuto, session.QualityHigh, session.QualityBalanced, session.QualityCompat:
	default:
		return
	}
	s.mu.Lock()
	if s.store.Quality() == q {
		s.mu.Unlock()
		return
	}
	s.store.SetQuality(q)
	quality := string(q)
	s.settings.Update(settings.Update{Quality: &quality}, true)
	s.mu.Unlock()
	s.store.Notify()
}

// SetProvider switches the active provider: playback stops, the outgoing
// queue snapshot is saved and the incoming provider's snapshot is restored.
func (s *serviceImpl) SetProvider(id string) {
	s.mu.Lock()
	old := s.store.Provider()
	if id == "" || id == old {
		s.mu.Unlock()
		return
	}

	s.invalidateLocked()
	s.cancelSkipLocked()
	s.sink.Stop()
	s.store.SetLoading(false)
	s.setPlayingLocked(false)
	s.store.SetErr("")
	s.store.SetProgress(0, 0)
	s.store.SetLyric(nil)

	// The provider has not switched yet, so this saves the outgoing queue.
	s.persistQueueLocked()

	snap := s.settings.Cache().Queue(id)
	s.queue.Replace(tracksFromRecords(snap.Tracks), snap.ResolveIndex())
	s.store.SetProvider(id)
	s.store.SetCurrent(s.queue.Current())
	if s.store.Mode() == session.ModeShuffle {
		s.walker.Resync(s.queue.CurrentIndex(), s.queue.Len())
	}
	s.mu.Unlock()
	s.store.Notify()
}

// SetNeedMoreTracks installs the supplier consulted when order mode runs off
// the end of the timeline. Stop clears it.
func (s *serviceImpl) SetNeedMoreTracks(fn func() []timeline.Track) {
	s.mu.Lock()
	s.needMore = fn
	s.mu.Unlock()
}

// Restore applies the persisted session snapshot for a provider: mode,
// volume, quality and the provider's queue, without starting playback.
func (s *serviceImpl) Restore(provider string) {
	s.mu.Lock()
	cached := s.settings.Cache()
	s.store.SetMode(session.PlayMode(cached.PlayMode))
	s.store.SetVolume(cached.Volume)
	s.store.SetQuality(session.Quality(cached.Quality))
	s.sink.SetVolume(s.store.Volume())

	snap := cached.Queue(provider)
	s.queue.Replace(tracksFromRecords(snap.Tracks), snap.ResolveIndex())
	s.store.SetProvider(provider)
	s.store.SetCurrent(s.queue.Current())
	if s.store.Mode() == session.ModeShuffle {
		s.walker.Resync(s.queue.CurrentIndex(), s.queue.Len())
	}
	s.store.SetSettingsRestored(true)
	s.mu.Unlock()
	s.store.Notify()
}

// Reset wipes the session and its persisted data: playback stops, durable
// writes are disabled, the stored settings are cleared and the in-memory
// session returns to defaults, dropping every subscriber. Used for the
// logout/data-clear teardown.
func (s *serviceImpl) Reset() error {
	s.mu.Lock()
	s.invalidateLocked()
	s.cancelSkipLocked()
	s.needMore = nil
	s.sink.Stop()
	s.queue.Clear()
	s.walker.Resync(-1, 0)
	s.store.SetSaveEnabled(false)
	s.mu.Unlock()

	err := s.settings.Clear()
	s.store.Reset()
	if err != nil {
		return fmt.Errorf("clear saved settings: %w", err)
	}
	return nil
}

// State returns a snapshot of the session state.
func (s *serviceImpl) State() session.State {
	return s.store.Snapshot()
}

// CurrentTrack returns the current timeline track, or nil.
func (s *serviceImpl) CurrentTrack() *timeline.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Current()
}

// Position returns the live sink position.
func (s *serviceImpl) Position() time.Duration {
	return s.sink.Position()
}

// Duration returns the live sink duration.
func (s *serviceImpl) Duration() time.Duration {
	return s.sink.Duration()
}

// QueueTracks returns a copy of the timeline.
func (s *serviceImpl) QueueTracks() []timeline.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Tracks()
}

// QueueIndex returns the current timeline index (-1 if none).
func (s *serviceImpl) QueueIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.CurrentIndex()
}

// QueueLen returns the timeline length.
func (s *serviceImpl) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Subscribe registers a state-change callback and returns its unsubscribe
// function.
func (s *serviceImpl) Subscribe(fn func()) func() {
	return s.store.Subscribe(fn)
}

// Close shuts down the service and the sink.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.invalidateLocked()
	s.cancelSkipLocked()
	close(s.done)
	s.cancel()
	s.mu.Unlock()

	s.inhibitor.Restore()
	return s.sink.Close()
}

// beginPlayLocked starts the async play path for the track at index: the
// session optimistically mirrors the track while resolution runs in the
// background. Callers hold the lock and notify afterwards.
func (s *serviceImpl) beginPlayLocked(index int) {
	t := s.queue.Track(index)
	if t == nil {
		return
	}

	s.invalidateLocked()
	s.cancelSkipLocked()
	s.sink.Stop()

	s.store.SetCurrent(t)
	s.store.SetLoading(true)
	s.store.SetErr("")
	s.store.SetProgress(0, t.Duration)
	if l := s.store.Lyric(); l != nil && l.TrackID != t.ID {
		s.store.SetLyric(nil)
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.playCancel = cancel
	go s.resolveAndPlay(ctx, s.gen, *t)
}

func (s *serviceImpl) resolveAndPlay(ctx context.Context, g int64, t timeline.Track) {
	defer s.recoverStart(g)

	res, err := s.catalog.ResolveURL(ctx, t.ID, string(s.store.Quality()))
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.failStart(g, t, errmsg.FormatWith(errmsg.OpResolveURL, t.Title, err))
		return
	}

	s.mu.Lock()
	if s.staleLocked(g) {
		s.mu.Unlock()
		return
	}
	if res.FallbackProvider != "" {
		s.log.WithField("track", t.ID).
			WithField("provider", res.FallbackProvider).
			Info("resolved through fallback provider")
	}
	s.sink.SetSource(res.URL)
	s.mu.Unlock()

	// Load runs on the per-start context: a superseding play cancels it, so
	// a stale download aborts instead of replacing the newer stream.
	if err := s.sink.Load(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.failStart(g, t, errmsg.FormatWith(errmsg.OpPlaybackStart, t.Title, err))
		return
	}

	s.mu.Lock()
	if s.staleLocked(g) {
		s.mu.Unlock()
		return
	}
	if err := s.sink.Play(); err != nil {
		s.mu.Unlock()
		s.failStart(g, t, errmsg.FormatWith(errmsg.OpPlaybackStart, t.Title, err))
		return
	}
	s.sink.SetVolume(s.store.Volume())
	s.store.SetLoading(false)
	s.setPlayingLocked(true)
	s.store.SetProgress(0, s.sink.Duration())
	l := s.store.Lyric()
	needLyric := l == nil || l.TrackID != t.ID
	s.mu.Unlock()
	s.store.Notify()

	if needLyric {
		go s.loadLyric(ctx, g, t.ID)
	}
}

// failStart records a start failure and, with more than one track queued,
// arms the auto-skip timer.
func (s *serviceImpl) failStart(g int64, t timeline.Track, msg string) {
	s.mu.Lock()
	if s.staleLocked(g) {
		s.mu.Unlock()
		return
	}
	s.store.SetLoading(false)
	s.setPlayingLocked(false)
	s.store.SetErr(msg)
	if s.autoSkip && s.queue.Len() > 1 {
		s.scheduleSkipLocked(g)
	}
	s.mu.Unlock()

	s.log.WithField("track", t.ID).Warn(msg)
	s.notifier.Notify(notify.Notification{Title: "Playback failed", Body: t.Title})
	s.store.Notify()
}

func (s *serviceImpl) loadLyric(ctx context.Context, g int64, trackID string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("recovered panic in lyric fetch")
		}
	}()

	l, err := s.catalog.FetchLyric(ctx, trackID)
	if err != nil {
		s.log.WithError(err).WithField("track", trackID).Debug("lyric fetch failed")
		return
	}

	s.mu.Lock()
	if s.staleLocked(g) {
		s.mu.Unlock()
		return
	}
	s.store.SetLyric(&session.Lyric{TrackID: trackID, Text: l.Text, Translation: l.Translation})
	s.mu.Unlock()
	s.store.Notify()
}

// advance moves to the next track after a natural end (replaySingle true) or
// a manual/auto skip (replaySingle false), honoring the play mode.
// anyGen skips the generation check for advances driven by the sink's own
// end-of-media signal rather than a deferred timer.
const anyGen = int64(-1)

func (s *serviceImpl) advance(replaySingle bool) {
	s.advanceIfCurrent(replaySingle, anyGen)
}

// advanceIfCurrent advances only while the generation still equals g. The
// check happens under the same lock that performs the advance, so a play()
// landing after a skip timer has fired cannot be skipped over by it.
func (s *serviceImpl) advanceIfCurrent(replaySingle bool, g int64) {
	s.mu.Lock()
	if s.closed || s.queue.Current() == nil || (g != anyGen && s.gen != g) {
		s.mu.Unlock()
		return
	}

	mode := s.store.Mode()
	if replaySingle && mode == session.ModeSingle {
		s.beginPlayLocked(s.queue.CurrentIndex())
		s.mu.Unlock()
		s.store.Notify()
		return
	}

	if mode == session.ModeShuffle {
		prev := s.walker.Current()
		next := s.walker.Next()
		if next < 0 || next == prev {
			// Every track has been visited.
			s.haltTransportLocked()
			s.mu.Unlock()
			s.store.Notify()
			return
		}
		s.queue.SetCurrent(next)
		s.beginPlayLocked(next)
		s.persistQueueLocked()
		s.mu.Unlock()
		s.store.Notify()
		return
	}

	if s.queue.HasNext() {
		s.queue.Advance()
		s.beginPlayLocked(s.queue.CurrentIndex())
		s.persistQueueLocked()
		s.mu.Unlock()
		s.store.Notify()
		return
	}

	// Past the end of the timeline: consult the supplier.
	fn := s.needMore
	s.mu.Unlock()
	var more []timeline.Track
	if fn != nil {
		more = fn()
	}

	s.mu.Lock()
	if s.closed || (g != anyGen && s.gen != g) {
		s.mu.Unlock()
		return
	}
	if s.queue.Splice(more) > 0 && s.queue.HasNext() {
		s.queue.Advance()
		s.beginPlayLocked(s.queue.CurrentIndex())
		s.persistQueueLocked()
		s.mu.Unlock()
		s.store.Notify()
		return
	}
	s.haltTransportLocked()
	s.mu.Unlock()
	s.store.Notify()
}

// haltTransportLocked stops playback at the end of the timeline, keeping the
// current track visible.
func (s *serviceImpl) haltTransportLocked() {
	s.invalidateLocked()
	s.cancelSkipLocked()
	s.sink.Stop()
	s.store.SetLoading(false)
	s.setPlayingLocked(false)
	s.store.SetProgress(0, 0)
}

// setPlayingLocked updates the playing flag and triggers sleep inhibition on
// the false→true edge and release on the true→false edge.
func (s *serviceImpl) setPlayingLocked(v bool) {
	was := s.store.Playing()
	s.store.SetPlaying(v)
	if was == v {
		return
	}
	if v {
		s.inhibitor.Inhibit()
	} else {
		s.inhibitor.Restore()
	}
}

func (s *serviceImpl) staleLocked(g int64) bool {
	return s.gen != g || s.closed
}

// invalidateLocked supersedes any in-flight async start. Late completions
// fail the staleness check, and canceling the start's context aborts a
// download still in flight before it can touch the sink.
func (s *serviceImpl) invalidateLocked() {
	s.gen++
	if s.playCancel != nil {
		s.playCancel()
		s.playCancel = nil
	}
}

func (s *serviceImpl) scheduleSkipLocked(g int64) {
	s.cancelSkipLocked()
	s.skipTimer = time.AfterFunc(s.skipDelay, func() {
		s.guarded(func() { s.advanceIfCurrent(false, g) })
	})
}

func (s *serviceImpl) cancelSkipLocked() {
	if s.skipTimer != nil {
		s.skipTimer.Stop()
		s.skipTimer = nil
	}
}

// persistQueueLocked schedules a debounced save of the active provider's
// queue snapshot. Suppressed while session saving is off.
func (s *serviceImpl) persistQueueLocked() {
	provider := s.store.Provider()
	if provider == "" || !s.store.SaveEnabled() {
		return
	}
	snap := s.queueSnapshotLocked()
	s.settings.Update(settings.Update{QueueProvider: provider, Queue: &snap}, true)
}

func (s *serviceImpl) queueSnapshotLocked() settings.QueueSnapshot {
	snap := settings.QueueSnapshot{
		Tracks:       recordsFromTracks(s.queue.Tracks()),
		CurrentIndex: s.queue.CurrentIndex(),
	}
	if t := s.queue.Current(); t != nil {
		snap.CurrentID = t.ID
	}
	return snap
}

// recoverStart turns a panic during the async start path into a start
// failure.
func (s *serviceImpl) recoverStart(g int64) {
	if r := recover(); r != nil {
		s.log.WithField("panic", r).Error("recovered panic during playback start")
		s.mu.Lock()
		if s.staleLocked(g) {
			s.mu.Unlock()
			return
		}
		s.store.SetLoading(false)
		s.setPlayingLocked(false)
		s.store.SetErr(errmsg.Format(errmsg.OpPlaybackStart, fmt.Errorf("internal error: %v", r)))
		s.mu.Unlock()
		s.store.Notify()
	}
}
