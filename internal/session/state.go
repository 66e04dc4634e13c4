package session

import (
	"time"

	"github.com/lmorel/chorus/internal/timeline"
)

// PlayMode defines how the timeline advances at the end of a track.
type PlayMode string

const (
	ModeOrder   PlayMode = "order"   // advance through the timeline in order
	ModeSingle  PlayMode = "single"  // replay the current track
	ModeShuffle PlayMode = "shuffle" // random walk over the timeline
)

// Valid returns true for a known play mode.
func (m PlayMode) Valid() bool {
	switch m {
	case ModeOrder, ModeSingle, ModeShuffle:
		return true
	default:
		return false
	}
}

// Quality is the preferred playback quality tier passed to URL resolution.
type Quality string

const (
	QualityAuto     Quality = "auto"
	QualityHigh     Quality = "high"
	QualityBalanced Quality = "balanced"
	QualityCompat   Quality = "compat"
)

// Lyric holds the raw lyric payload for the current track.
type Lyric struct {
	TrackID     string // id of the track the payload belongs to
	Text        string // raw LRC text
	Translation string // translated lyric text, may be empty
}

// State is a snapshot of every session field.
type State struct {
	Current  *timeline.Track // denormalized copy of the playing track
	Playing  bool
	Loading  bool
	Err      string        // last recoverable playback error, empty if none
	Position time.Duration // mirrored from the audio sink
	Duration time.Duration // mirrored from the audio sink
	Mode     PlayMode
	Volume   float64 // 0.0 - 1.0
	Quality  Quality
	Provider string // active provider id
	Lyric    *Lyric

	SettingsRestored bool // set once persisted state has been applied at boot
	SaveEnabled      bool // false suppresses persistence during teardown
}

func defaultState() State {
	return State{
		Mode:        ModeOrder,
		Volume:      1.0,
		Quality:     QualityAuto,
		SaveEnabled: true,
	}
}
