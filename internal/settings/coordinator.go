package settings

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const saveDebounce = 500 * time.Millisecond

// writeState tracks the durable-write machinery. Modelled as an explicit
// state machine so the no-lost-update property is directly testable.
type writeState int

const (
	writeIdle writeState = iota
	writeScheduled
	writeInFlight
	writeInFlightDirty // in flight, and the cache changed since staging
)

// Coordinator merges partial updates into an in-memory settings cache and
// writes it to the durable store with debouncing. At most one write is in
// flight at a time; a cache mutated during a write is written again as soon
// as the write completes.
type Coordinator struct {
	mu        sync.Mutex
	writeDone *sync.Cond // broadcast whenever an in-flight write settles
	store     Store
	cache     Settings
	state     writeState
	timer     *time.Timer
	enabled   bool
	debounce  time.Duration
	log       logrus.FieldLogger
}

// NewCoordinator creates a coordinator seeded with initial as its cache.
func NewCoordinator(store Store, initial Settings, log logrus.FieldLogger) *Coordinator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := &Coordinator{
		store:    store,
		cache:    initial.Normalize(),
		enabled:  true,
		debounce: saveDebounce,
		log:      log,
	}
	c.writeDone = sync.NewCond(&c.mu)
	return c
}

// SetDebounce overrides the debounce window. Zero keeps the default.
func (c *Coordinator) SetDebounce(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.debounce = d
	}
}

// Cache returns a copy of the merged in-memory settings, including updates
// not yet written.
func (c *Coordinator) Cache() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.clone()
}

// Update merges a partial update into the cache synchronously, so immediate
// reads observe the new value. With commit set, a durable write is scheduled
// through the debounce window.
func (c *Coordinator) Update(u Update, commit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if u.PlayMode != nil {
		c.cache.PlayMode = *u.PlayMode
	}
	if u.Volume != nil {
		c.cache.Volume = *u.Volume
	}
	if u.Quality != nil {
		c.cache.Quality = *u.Quality
	}
	if u.Queue != nil && u.QueueProvider != "" {
		q := *u.Queue
		tracks := make([]TrackRecord, len(q.Tracks))
		copy(tracks, q.Tracks)
		q.Tracks = tracks
		c.cache.ProviderQueues[u.QueueProvider] = q
	}

	if commit {
		c.scheduleLocked()
	}
}

// SetEnabled toggles durable writes. Disabling cancels any pending timer
// and turns every later scheduling attempt into a no-op; the in-memory
// cache keeps merging either way. Used during logout and data-clear
// teardown.
func (c *Coordinator) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enabled = enabled
	if !enabled {
		if c.timer != nil {
			c.timer.Stop()
			c.timer = nil
		}
		if c.state == writeScheduled {
			c.state = writeIdle
		}
		if c.state == writeInFlightDirty {
			c.state = writeInFlight
		}
	}
}

// Enabled reports whether durable writes are allowed.
func (c *Coordinator) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Clear disables durable writes, wipes the backing store and resets the
// cache to defaults. Used for the logout/data-clear teardown.
func (c *Coordinator) Clear() error {
	c.mu.Lock()
	c.enabled = false
	c.waitWriteSettledLocked()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.state = writeIdle
	c.cache = Defaults()
	c.mu.Unlock()

	return c.store.Clear()
}

// Flush cancels any pending timer and writes the cache now. Called on
// shutdown. An in-flight debounced write is waited out first so at most one
// write runs at a time on this path too.
func (c *Coordinator) Flush() error {
	c.mu.Lock()
	c.waitWriteSettledLocked()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if !c.enabled {
		c.mu.Unlock()
		return nil
	}
	c.state = writeInFlight
	staged := c.cache.clone()
	c.mu.Unlock()

	err := c.store.Save(staged)

	c.mu.Lock()
	c.state = writeIdle
	c.writeDone.Broadcast()
	c.mu.Unlock()
	return err
}

func (c *Coordinator) waitWriteSettledLocked() {
	for c.state == writeInFlight || c.state == writeInFlightDirty {
		c.writeDone.Wait()
	}
}

func (c *Coordinator) scheduleLocked() {
	if !c.enabled {
		return
	}

	switch c.state {
	case writeIdle:
		c.state = writeScheduled
		c.startTimerLocked(c.debounce)
	case writeScheduled:
		// Restart the window so a burst collapses into one write of the
		// latest merged state.
		c.startTimerLocked(c.debounce)
	case writeInFlight:
		c.state = writeInFlightDirty
	case writeInFlightDirty:
		// Already marked; the chained write will pick up the latest cache.
	}
}

func (c *Coordinator) startTimerLocked(d time.Duration) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(d, c.fire)
}

func (c *Coordinator) fire() {
	c.mu.Lock()
	if c.state != writeScheduled || !c.enabled {
		c.mu.Unlock()
		return
	}
	c.state = writeInFlight
	c.timer = nil
	staged := c.cache.clone()
	c.mu.Unlock()

	err := c.store.Save(staged)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.writeDone.Broadcast()

	if err != nil {
		// Not user-visible; the cache keeps the data staged and the next
		// scheduling pass writes the full latest state.
		c.log.WithError(err).Warn("settings save failed, will retry on next write")
	}

	if c.state == writeInFlightDirty && c.enabled {
		// The cache changed while the write was in flight; chain another
		// write immediately rather than dropping the newer version.
		c.state = writeScheduled
		c.startTimerLocked(0)
		return
	}
	c.state = writeIdle
}
