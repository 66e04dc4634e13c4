package playback

import (
	"time"

	"github.com/lmorel/chorus/internal/session"
	"github.com/lmorel/chorus/internal/timeline"
)

// Service defines the playback session contract.
type Service interface {
	// Track selection
	PlaySingle(t timeline.Track)
	PlayList(ts []timeline.Track, start int)
	PlayAt(index int)
	AddToQueue(ts []timeline.Track)
	RemoveFromQueue(index int)

	// Transport control
	Next()
	Previous()
	Toggle()
	Seek(position time.Duration)
	Stop()

	// Session settings
	SetMode(m session.PlayMode)
	SetVolume(v float64)
	SetQuality(q session.Quality)
	SetProvider(id string)
	SetNeedMoreTracks(fn func() []timeline.Track)

	// State queries
	State() session.State
	CurrentTrack() *timeline.Track
	Position() time.Duration
	Duration() time.Duration
	QueueTracks() []timeline.Track
	QueueIndex() int
	QueueLen() int

	// Session restore and teardown
	Restore(provider string)
	Reset() error

	// Event subscription
	Subscribe(fn func()) func()

	// Lifecycle
	Close() error
}
