package power

// stubInhibitor does nothing. Used when D-Bus is unavailable or on
// platforms without a screensaver service.
type stubInhibitor struct{}

func (s *stubInhibitor) Inhibit() {}
func (s *stubInhibitor) Restore() {}

// NewStub returns an Inhibitor that does nothing.
func NewStub() Inhibitor {
	return &stubInhibitor{}
}
