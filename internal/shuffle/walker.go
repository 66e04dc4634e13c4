// Package shuffle implements a replayable random walk over timeline indices.
//
// Stepping forward picks a uniformly random unvisited index, but the walk is
// recorded: stepping back after a shuffled step returns the exact prior
// index, and stepping forward again replays the recorded path before any new
// random pick is made. No index is visited twice until the pool is
// exhausted.
package shuffle

import "math/rand/v2"

// Walker tracks a shuffle pass over indices [0, length).
type Walker struct {
	history []int // visited indices, in visit order, no duplicates
	cursor  int   // position in history; history[cursor] is the current index
	pool    []int // indices not yet visited
	length  int   // timeline length at the last resync
	rand    *rand.Rand
}

// New creates a walker with the default random source.
func New() *Walker {
	return &Walker{cursor: -1}
}

// NewWithRand creates a walker with an injected random source, for
// deterministic tests.
func NewWithRand(r *rand.Rand) *Walker {
	return &Walker{cursor: -1, rand: r}
}

// Current returns the index at the cursor, or -1 if the walk is empty.
func (w *Walker) Current() int {
	if w.cursor < 0 || w.cursor >= len(w.history) {
		return -1
	}
	return w.history[w.cursor]
}

// History returns a copy of the visited indices.
func (w *Walker) History() []int {
	result := make([]int, len(w.history))
	copy(result, w.history)
	return result
}

// PoolSize returns the number of indices still eligible for a random pick.
func (w *Walker) PoolSize() int {
	return len(w.pool)
}

// Resync rebuilds the walk around the given current timeline index after a
// structural change or a mode switch. Invalid entries are pruned from the
// history; if current was already visited the history is truncated there,
// otherwise the walk collapses to just [current]. The pool becomes every
// index not in the history.
func (w *Walker) Resync(current, length int) {
	w.length = length

	if current < 0 || length == 0 {
		w.history = nil
		w.cursor = -1
		w.pool = nil
		return
	}

	pruned := make([]int, 0, len(w.history))
	seen := make(map[int]bool, len(w.history))
	for _, idx := range w.history {
		if idx < 0 || idx >= length || seen[idx] {
			continue
		}
		seen[idx] = true
		pruned = append(pruned, idx)
	}
	w.history = pruned

	at := -1
	for i, idx := range w.history {
		if idx == current {
			at = i
			break
		}
	}
	if at >= 0 {
		w.history = w.history[:at+1]
		w.cursor = at
	} else {
		w.history = []int{current}
		w.cursor = 0
	}

	w.rebuildPool()
}

// Next advances the walk and returns the new current index.
//
// A previously recorded forward step is replayed first. Otherwise a random
// unvisited index is picked; when every index has been visited the current
// index is returned unchanged.
func (w *Walker) Next() int {
	if w.cursor >= 0 && w.cursor < len(w.history)-1 {
		w.cursor++
		return w.history[w.cursor]
	}

	if len(w.pool) == 0 {
		// Guard against drift between the pool and the timeline.
		w.rebuildPool()
	}
	if len(w.pool) == 0 {
		return w.Current()
	}

	at := w.intn(len(w.pool))
	idx := w.pool[at]
	w.pool = append(w.pool[:at], w.pool[at+1:]...)
	w.history = append(w.history, idx)
	w.cursor = len(w.history) - 1
	return idx
}

// Prev steps back within the recorded history and returns the new current
// index. At the start of the history the first visited index is returned.
func (w *Walker) Prev() int {
	if w.cursor > 0 {
		w.cursor--
	}
	if len(w.history) == 0 {
		return -1
	}
	return w.history[w.cursor]
}

// JumpTo records an explicit selection of index. A jump to an already
// visited index truncates the history there, matching ordinary back
// navigation; otherwise the forward path past the cursor is discarded and
// index becomes the newest step.
func (w *Walker) JumpTo(index int) {
	for i, idx := range w.history {
		if idx == index {
			w.history = w.history[:i+1]
			w.cursor = i
			w.rebuildPool()
			return
		}
	}

	w.history = append(w.history[:w.cursor+1], index)
	w.cursor = len(w.history) - 1
	w.rebuildPool()
}

// OnRemove strips a removed timeline index from the walk and shifts the
// indices above it down by one, in both the history and the pool.
func (w *Walker) OnRemove(index int) {
	if w.length > 0 {
		w.length--
	}

	cursor := w.cursor
	pruned := w.history[:0]
	for i, idx := range w.history {
		switch {
		case idx == index:
			if i <= w.cursor {
				cursor--
			}
			continue
		case idx > index:
			idx--
		}
		pruned = append(pruned, idx)
	}
	w.history = pruned
	if cursor >= len(w.history) {
		cursor = len(w.history) - 1
	}
	if cursor < 0 && len(w.history) > 0 {
		cursor = 0
	}
	w.cursor = cursor

	kept := w.pool[:0]
	for _, idx := range w.pool {
		switch {
		case idx == index:
			continue
		case idx > index:
			idx--
		}
		kept = append(kept, idx)
	}
	w.pool = kept
}

// OnAdd makes newly inserted timeline indices eligible for random picks
// unless they were already visited.
func (w *Walker) OnAdd(indices []int) {
	visited := make(map[int]bool, len(w.history))
	for _, idx := range w.history {
		visited[idx] = true
	}
	for _, idx := range indices {
		if idx >= w.length {
			w.length = idx + 1
		}
		if visited[idx] {
			continue
		}
		inPool := false
		for _, p := range w.pool {
			if p == idx {
				inPool = true
				break
			}
		}
		if !inPool {
			w.pool = append(w.pool, idx)
		}
	}
}

// rebuildPool recomputes the pool as every index outside the history.
func (w *Walker) rebuildPool() {
	visited := make(map[int]bool, len(w.history))
	for _, idx := range w.history {
		visited[idx] = true
	}
	w.pool = w.pool[:0]
	for i := 0; i < w.length; i++ {
		if !visited[i] {
			w.pool = append(w.pool, i)
		}
	}
}

func (w *Walker) intn(n int) int {
	if w.rand != nil {
		return w.rand.IntN(n)
	}
	return rand.IntN(n) //nolint:gosec // not security-sensitive
}
