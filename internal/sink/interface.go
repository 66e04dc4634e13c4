// Package sink abstracts the single physical audio output. Only the
// playback service mutates the sink; its position and duration are read-only
// inputs mirrored into session state.
package sink

import (
	"context"
	"time"
)

// Interface defines the audio sink contract for dependency injection and
// testing.
type Interface interface {
	// SetSource assigns the stream URL to play next. It does not load or
	// start anything on its own.
	SetSource(url string)
	Source() string

	// Load fetches and decodes the assigned source.
	Load(ctx context.Context) error
	// Play starts playback of the loaded source. A start failure (bad
	// stream, codec error, nothing loaded) is reported as an error.
	Play() error

	Pause()
	Resume()
	// Stop halts playback and clears the loaded source.
	Stop()

	State() State
	Position() time.Duration
	SetPosition(d time.Duration)
	Duration() time.Duration
	SetVolume(level float64)

	// FinishedChan signals natural end of media.
	FinishedChan() <-chan struct{}

	Close() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
