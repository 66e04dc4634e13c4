//go:build linux

package power

import (
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	dbusScreenSaverDest      = "org.freedesktop.ScreenSaver"
	dbusScreenSaverPath      = "/org/freedesktop/ScreenSaver"
	dbusScreenSaverInterface = "org.freedesktop.ScreenSaver"
)

// dbusInhibitor cooperates with the desktop screensaver service.
type dbusInhibitor struct {
	mu     sync.Mutex
	obj    dbus.BusObject
	cookie uint32
	active bool
}

// New creates an Inhibitor backed by the session screensaver service.
// Returns a no-op inhibitor if D-Bus is unavailable.
func New() Inhibitor {
	conn, err := dbus.SessionBus()
	if err != nil {
		return &stubInhibitor{}
	}
	return &dbusInhibitor{obj: conn.Object(dbusScreenSaverDest, dbusScreenSaverPath)}
}

// Inhibit requests sleep suppression. Holding an active cookie makes this a
// no-op.
func (i *dbusInhibitor) Inhibit() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.active {
		return
	}

	call := i.obj.Call(dbusScreenSaverInterface+".Inhibit", 0, "chorus", "audio playback")
	if call.Err != nil {
		return
	}
	var cookie uint32
	if err := call.Store(&cookie); err != nil {
		return
	}
	i.cookie = cookie
	i.active = true
}

// Restore releases the inhibition, if any.
func (i *dbusInhibitor) Restore() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.active {
		return
	}
	_ = i.obj.Call(dbusScreenSaverInterface+".UnInhibit", 0, i.cookie).Err
	i.active = false
	i.cookie = 0
}
