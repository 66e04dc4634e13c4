// Package timeline holds the single ordered track list plus current-index
// pointer representing everything played and queued. Entries before and at
// the current index form the history; entries after it form the future queue.
// No track id ever appears twice in the future queue.
package timeline

import "github.com/samber/lo"

// Timeline is an ordered sequence of tracks with a current position.
type Timeline struct {
	tracks  []Track
	current int // -1 if nothing playing
}

// New creates a new empty timeline.
func New() *Timeline {
	return &Timeline{
		tracks:  make([]Track, 0),
		current: -1,
	}
}

// Current returns the currently playing track, or nil if none.
func (tl *Timeline) Current() *Track {
	if tl.current < 0 || tl.current >= len(tl.tracks) {
		return nil
	}
	return &tl.tracks[tl.current]
}

// CurrentIndex returns the index of the currently playing track (-1 if none).
func (tl *Timeline) CurrentIndex() int {
	return tl.current
}

// Track returns the track at the given index, or nil if out of bounds.
func (tl *Timeline) Track(index int) *Track {
	if index < 0 || index >= len(tl.tracks) {
		return nil
	}
	return &tl.tracks[index]
}

// Tracks returns a copy of all tracks.
func (tl *Timeline) Tracks() []Track {
	result := make([]Track, len(tl.tracks))
	copy(result, tl.tracks)
	return result
}

// Len returns the number of tracks.
func (tl *Timeline) Len() int {
	return len(tl.tracks)
}

// IsEmpty returns true if the timeline has no tracks.
func (tl *Timeline) IsEmpty() bool {
	return len(tl.tracks) == 0
}

// HasNext returns true if there is a track after the current one.
func (tl *Timeline) HasNext() bool {
	return tl.current < len(tl.tracks)-1
}

// IndexOf returns the index of the first track with the given id, or -1.
func (tl *Timeline) IndexOf(id string) int {
	for i := range tl.tracks {
		if tl.tracks[i].ID == id {
			return i
		}
	}
	return -1
}

// SetCurrent moves the current position to index.
// Returns false if index is out of bounds.
func (tl *Timeline) SetCurrent(index int) bool {
	if index < 0 || index >= len(tl.tracks) {
		return false
	}
	tl.current = index
	return true
}

// Advance moves the current position forward by one.
// Returns the new current track, or nil if already at the end.
func (tl *Timeline) Advance() *Track {
	if !tl.HasNext() {
		return nil
	}
	tl.current++
	return tl.Current()
}

// PlaySingle makes t the new current track and returns its index.
//
// With no current track the timeline becomes [t]. Otherwise any other entry
// with the same id is removed first, then t is spliced immediately after the
// current index and the current position advances to it. History and the
// future queue are preserved.
func (tl *Timeline) PlaySingle(t Track) int {
	if tl.Current() == nil {
		tl.tracks = []Track{t}
		tl.current = 0
		return 0
	}

	// Drop any duplicate, except the entry currently playing.
	for i := 0; i < len(tl.tracks); i++ {
		if i != tl.current && tl.tracks[i].ID == t.ID {
			tl.tracks = append(tl.tracks[:i], tl.tracks[i+1:]...)
			if i < tl.current {
				tl.current--
			}
			break
		}
	}

	at := tl.current + 1
	tl.tracks = append(tl.tracks[:at], append([]Track{t}, tl.tracks[at:]...)...)
	tl.current = at
	return at
}

// PlayList merges a list of tracks into the timeline and returns the index
// to start playback at, or -1 if nothing should be played.
//
// With no current track the timeline is replaced wholesale and playback
// starts at start (clamped). Otherwise the history is kept unchanged, tracks
// whose id appears in ts are removed from the future queue, the subset of ts
// not already in the history is spliced immediately after the current index
// (so re-selected tracks relocate to the insert point instead of
// duplicating), and the deduplicated old future queue is re-appended. If ts
// brings nothing new at all, the timeline jumps to the existing occurrence
// of ts[start] when there is one and is otherwise left untouched.
func (tl *Timeline) PlayList(ts []Track, start int) int {
	if tl.Current() == nil {
		return tl.Replace(ts, start)
	}

	history := tl.tracks[:tl.current+1]
	future := tl.tracks[tl.current+1:]

	blocked := make(map[string]bool, len(history))
	for i := range history {
		blocked[history[i].ID] = true
	}

	insert := lo.Filter(ts, func(t Track, _ int) bool {
		return !blocked[t.ID]
	})
	insert = dedupByID(insert)

	if len(insert) == 0 {
		// Everything requested already sits in the history; jump instead
		// of inserting so re-selecting a queued list never duplicates it.
		if start >= 0 && start < len(ts) {
			if at := tl.IndexOf(ts[start].ID); at >= 0 {
				tl.current = at
				return at
			}
		}
		return -1
	}

	requested := make(map[string]bool, len(ts))
	for i := range ts {
		requested[ts[i].ID] = true
	}
	keptFuture := lo.Filter(future, func(t Track, _ int) bool {
		return !requested[t.ID] && t.ID != tl.tracks[tl.current].ID
	})

	merged := make([]Track, 0, len(history)+len(insert)+len(keptFuture))
	merged = append(merged, history...)
	merged = append(merged, insert...)
	merged = append(merged, keptFuture...)
	tl.tracks = merged

	if start < 0 || start >= len(ts) {
		start = 0
	}
	if at := tl.IndexOf(ts[start].ID); at >= 0 {
		tl.current = at
		return at
	}
	tl.current = len(history)
	return tl.current
}

// Append adds the tracks whose ids are not already present to the tail of
// the future queue. It returns the indices of the appended entries and the
// index to start playback at, which is -1 unless nothing was playing before
// the call (in which case playback starts on the first appended track).
func (tl *Timeline) Append(ts []Track) (added []int, playIndex int) {
	playIndex = -1

	for _, t := range ts {
		if tl.IndexOf(t.ID) >= 0 {
			continue
		}
		tl.tracks = append(tl.tracks, t)
		added = append(added, len(tl.tracks)-1)
	}

	if tl.current < 0 && len(added) > 0 {
		tl.current = added[0]
		playIndex = added[0]
	}
	return added, playIndex
}

// RemoveAt removes the track at index from the future queue.
// It is a no-op for indices at or before the current position and for
// out-of-range indices; history entries can never be removed.
func (tl *Timeline) RemoveAt(index int) bool {
	if index <= tl.current || index >= len(tl.tracks) {
		return false
	}
	tl.tracks = append(tl.tracks[:index], tl.tracks[index+1:]...)
	return true
}

// Splice inserts tracks immediately after the current position, skipping ids
// already present. Used to graft supplier-provided tracks onto an exhausted
// queue. Returns the number of tracks inserted.
func (tl *Timeline) Splice(ts []Track) int {
	novel := lo.Filter(ts, func(t Track, _ int) bool {
		return tl.IndexOf(t.ID) < 0
	})
	novel = dedupByID(novel)
	if len(novel) == 0 {
		return 0
	}
	at := tl.current + 1
	tl.tracks = append(tl.tracks[:at], append(novel, tl.tracks[at:]...)...)
	return len(novel)
}

// Replace swaps the whole timeline for ts and starts at start (clamped).
// Returns the new current index, or -1 when ts is empty.
func (tl *Timeline) Replace(ts []Track, start int) int {
	ts = dedupByID(ts)
	tl.tracks = make([]Track, len(ts))
	copy(tl.tracks, ts)
	if len(tl.tracks) == 0 {
		tl.current = -1
		return -1
	}
	if start < 0 {
		start = 0
	}
	if start >= len(tl.tracks) {
		start = len(tl.tracks) - 1
	}
	tl.current = start
	return start
}

// Clear removes all tracks and resets the current position.
func (tl *Timeline) Clear() {
	tl.tracks = tl.tracks[:0]
	tl.current = -1
}

// dedupByID keeps the first occurrence of each id.
func dedupByID(ts []Track) []Track {
	seen := make(map[string]bool, len(ts))
	result := make([]Track, 0, len(ts))
	for _, t := range ts {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		result = append(result, t)
	}
	return result
}
