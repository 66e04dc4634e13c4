package settings

import (
	"sync"
	"time"
)

// MockStore is a test double for the durable settings backend.
type MockStore struct {
	mu        sync.Mutex
	saved     []Settings
	loadRet   Settings
	loadErr   error
	saveErr   error
	saveDelay time.Duration
	saving    int
	maxSaving int
	cleared   bool
	closed    bool
}

// NewMockStore creates a new mock store for testing.
func NewMockStore() *MockStore {
	return &MockStore{loadRet: Defaults()}
}

func (m *MockStore) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return Settings{}, m.loadErr
	}
	return m.loadRet.clone(), nil
}

func (m *MockStore) Save(s Settings) error {
	m.mu.Lock()
	m.saving++
	if m.saving > m.maxSaving {
		m.maxSaving = m.saving
	}
	delay := m.saveDelay
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.saving--
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, s.clone())
	return nil
}

func (m *MockStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = true
	m.saved = nil
	return nil
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *MockStore) SetLoad(s Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadRet = s
}

func (m *MockStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// SetSaveDelay makes every Save take d, so tests can overlap a slow write
// with other coordinator activity.
func (m *MockStore) SetSaveDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveDelay = d
}

// MaxConcurrentSaves reports the highest number of Save calls that were ever
// running at the same time.
func (m *MockStore) MaxConcurrentSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxSaving
}

func (m *MockStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func (m *MockStore) Cleared() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleared
}

func (m *MockStore) LastSaved() (Settings, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return Settings{}, false
	}
	return m.saved[len(m.saved)-1].clone(), true
}

// Verify MockStore implements Store at compile time.
var _ Store = (*MockStore)(nil)
