// Package settings persists session state across restarts: play mode,
// volume, preferred quality and one queue snapshot per provider. Writes go
// through a debouncing Coordinator so bursts of mutations collapse into a
// single durable write.
package settings

// TrackRecord is the persisted form of a timeline track.
type TrackRecord struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	AlbumID  string
	Cover    string
	Provider string
	Duration int64 // seconds
}

// QueueSnapshot is the persisted queue of one provider.
type QueueSnapshot struct {
	Tracks       []TrackRecord
	CurrentIndex int
	CurrentID    string // id of the track that was playing when saved
}

// ResolveIndex reconciles the stored current-track id against the stored
// list and returns a valid index, or -1 for an empty snapshot. The id wins
// over the stored index because the list may have changed shape between
// sessions.
func (q QueueSnapshot) ResolveIndex() int {
	if len(q.Tracks) == 0 {
		return -1
	}
	if q.CurrentID != "" {
		for i, t := range q.Tracks {
			if t.ID == q.CurrentID {
				return i
			}
		}
	}
	if q.CurrentIndex >= 0 && q.CurrentIndex < len(q.Tracks) {
		return q.CurrentIndex
	}
	return 0
}

// Settings is the full persisted snapshot.
type Settings struct {
	ProviderQueues map[string]QueueSnapshot
	PlayMode       string
	Volume         float64
	Quality        string
}

// Defaults returns the settings used before anything was ever saved.
func Defaults() Settings {
	return Settings{
		ProviderQueues: make(map[string]QueueSnapshot),
		PlayMode:       "order",
		Volume:         1.0,
		Quality:        "auto",
	}
}

// Normalize applies per-field defaults to a loaded snapshot, so partially
// written or older records never surface zero values.
func (s Settings) Normalize() Settings {
	if s.ProviderQueues == nil {
		s.ProviderQueues = make(map[string]QueueSnapshot)
	}
	switch s.PlayMode {
	case "order", "single", "shuffle":
	default:
		s.PlayMode = "order"
	}
	if s.Volume < 0 || s.Volume > 1 {
		s.Volume = 1.0
	}
	switch s.Quality {
	case "auto", "high", "balanced", "compat":
	default:
		s.Quality = "auto"
	}
	return s
}

// Queue returns the snapshot stored for a provider, or an empty one.
func (s Settings) Queue(provider string) QueueSnapshot {
	if q, ok := s.ProviderQueues[provider]; ok {
		return q
	}
	return QueueSnapshot{CurrentIndex: -1}
}

// clone deep-copies the settings so a staged write never aliases the live
// cache.
func (s Settings) clone() Settings {
	out := s
	out.ProviderQueues = make(map[string]QueueSnapshot, len(s.ProviderQueues))
	for id, q := range s.ProviderQueues {
		tracks := make([]TrackRecord, len(q.Tracks))
		copy(tracks, q.Tracks)
		q.Tracks = tracks
		out.ProviderQueues[id] = q
	}
	return out
}

// Update is a partial settings mutation merged into the coordinator cache.
// Nil fields are left untouched.
type Update struct {
	PlayMode *string
	Volume   *float64
	Quality  *string

	// QueueProvider/Queue replace the snapshot stored for one provider.
	QueueProvider string
	Queue         *QueueSnapshot
}

// Store abstracts the durable settings backend. Implementations must
// tolerate repeated saves of overlapping content.
type Store interface {
	Load() (Settings, error)
	Save(Settings) error
	Clear() error
	Close() error
}
