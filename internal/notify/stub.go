package notify

// stubNotifier is a no-op notifier, used when D-Bus is unavailable.
type stubNotifier struct{}

func (s *stubNotifier) Notify(_ Notification) {}

// NewStub returns a no-op notifier, for tests and headless hosts.
func NewStub() Notifier {
	return &stubNotifier{}
}
