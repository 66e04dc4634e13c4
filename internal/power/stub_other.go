//go:build !linux

package power

// New returns a no-op Inhibitor on platforms without D-Bus.
func New() Inhibitor {
	return &stubInhibitor{}
}
