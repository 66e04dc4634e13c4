// Package notify provides transient user-visible notifications via D-Bus.
package notify

// Notification contains data for a desktop notification.
type Notification struct {
	Title   string // summary text (required)
	Body    string // body text (optional)
	Icon    string // icon name or path (optional)
	Timeout int32  // ms, -1 = server default, 0 = never expire
}

// Notifier sends fire-and-forget notifications; failures are swallowed so a
// missing notification daemon never disturbs playback.
type Notifier interface {
	Notify(n Notification)
}
