package sink

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Mock is a test double for the audio sink. Safe for concurrent use, since
// the playback service drives the sink from several goroutines.
type Mock struct {
	mu sync.Mutex

	source   string
	state    State
	loaded   bool
	position time.Duration
	duration time.Duration
	level    float64

	loadErr error
	playErr error

	loadGates map[string]chan struct{}
	loadCalls []string
	playCalls int

	finishedCh chan struct{}
}

// NewMock creates a new mock sink for testing.
func NewMock() *Mock {
	return &Mock{
		state:      Stopped,
		level:      1.0,
		finishedCh: make(chan struct{}, 1),
	}
}

func (m *Mock) SetSource(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source = url
}

func (m *Mock) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}

func (m *Mock) Load(ctx context.Context) error {
	m.mu.Lock()
	source := m.source
	gate := m.loadGates[source]
	m.loadCalls = append(m.loadCalls, source)
	loadErr := m.loadErr
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if loadErr != nil {
		return loadErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.source != source {
		return errors.New("load superseded")
	}
	m.loaded = true
	m.position = 0
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Paused {
		m.state = Playing
	}
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Stopped
	m.loaded = false
	m.source = ""
	m.position = 0
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

func (m *Mock) FinishedChan() <-chan struct{} { return m.finishedCh }

func (m *Mock) Close() error {
	m.Stop()
	return nil
}

// Test helpers

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// GateLoad blocks Load calls for source until the returned release function
// is called. A blocked Load aborts with the context error if its context is
// canceled first.
func (m *Mock) GateLoad(source string) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadGates == nil {
		m.loadGates = make(map[string]chan struct{})
	}
	ch := make(chan struct{})
	m.loadGates[source] = ch
	return func() { close(ch) }
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.loadCalls))
	copy(calls, m.loadCalls)
	return calls
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

func (m *Mock) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// SimulateFinished simulates the natural end of the loaded track.
func (m *Mock) SimulateFinished() {
	select {
	case m.finishedCh <- struct{}{}:
	default:
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
