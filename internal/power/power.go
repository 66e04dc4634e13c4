// Package power suppresses device sleep while audio is playing. The
// playback service calls Inhibit and Restore exactly on the playing-state
// edges, never on every tick.
package power

// Inhibitor keeps the device awake between Inhibit and Restore.
// Implementations must be idempotent: a second Inhibit without an
// intervening Restore keeps a single inhibition active.
type Inhibitor interface {
	Inhibit()
	Restore()
}
