package timeline

import "time"

// Track represents a single track from a music catalog.
// Tracks are value types; two tracks are the same track when their IDs match.
type Track struct {
	ID       string // provider track id, globally unique within a provider
	Title    string
	Artist   string
	Album    string
	AlbumID  string        // album id, used for cover lookups
	Cover    string        // cover art URL
	Duration time.Duration // 0 until resolved
	Provider string        // id of the provider the track came from
}
