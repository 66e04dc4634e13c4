package power

import "sync"

// MockInhibitor records Inhibit/Restore calls for tests.
type MockInhibitor struct {
	mu           sync.Mutex
	inhibitCalls int
	restoreCalls int
	active       bool
}

var _ Inhibitor = (*MockInhibitor)(nil)

func NewMock() *MockInhibitor {
	return &MockInhibitor{}
}

func (m *MockInhibitor) Inhibit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inhibitCalls++
	m.active = true
}

func (m *MockInhibitor) Restore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restoreCalls++
	m.active = false
}

func (m *MockInhibitor) InhibitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inhibitCalls
}

func (m *MockInhibitor) RestoreCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restoreCalls
}

func (m *MockInhibitor) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
