package timeline

import "testing"

func track(id string) Track {
	return Track{ID: id, Title: "Track " + id, Provider: "qqmusic"}
}

func ids(tl *Timeline) []string {
	tracks := tl.Tracks()
	result := make([]string, len(tracks))
	for i, t := range tracks {
		result[i] = t.ID
	}
	return result
}

func assertOrder(t *testing.T, tl *Timeline, want ...string) {
	t.Helper()
	got := ids(tl)
	if len(got) != len(want) {
		t.Fatalf("timeline = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("timeline = %v, want %v", got, want)
		}
	}
}

// assertNoFutureDup verifies no track id appears twice past the current index.
func assertNoFutureDup(t *testing.T, tl *Timeline) {
	t.Helper()
	seen := make(map[string]int)
	for i, id := range ids(tl) {
		if i <= tl.CurrentIndex() {
			continue
		}
		if prev, ok := seen[id]; ok {
			t.Fatalf("duplicate id %q in future queue at %d and %d", id, prev, i)
		}
		seen[id] = i
	}
}

func TestNew(t *testing.T) {
	tl := New()

	if tl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tl.Len())
	}
	if tl.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", tl.CurrentIndex())
	}
	if tl.Current() != nil {
		t.Error("Current() should be nil for empty timeline")
	}
}

func TestPlaySingle_Empty(t *testing.T) {
	tl := New()

	at := tl.PlaySingle(track("a"))

	if at != 0 {
		t.Errorf("PlaySingle returned %d, want 0", at)
	}
	assertOrder(t, tl, "a")
	if tl.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", tl.CurrentIndex())
	}
}

func TestPlaySingle_InsertsAfterCurrent(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b"), track("c")}, 0)

	at := tl.PlaySingle(track("x"))

	if at != 1 {
		t.Errorf("PlaySingle returned %d, want 1", at)
	}
	assertOrder(t, tl, "a", "x", "b", "c")
	if tl.Current().ID != "x" {
		t.Errorf("Current().ID = %q, want x", tl.Current().ID)
	}
}

func TestPlaySingle_RemovesDuplicate(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b"), track("c")}, 0)

	// c already queued further down; it must relocate, not duplicate.
	at := tl.PlaySingle(track("c"))

	if at != 1 {
		t.Errorf("PlaySingle returned %d, want 1", at)
	}
	assertOrder(t, tl, "a", "c", "b")
	assertNoFutureDup(t, tl)
}

func TestPlaySingle_DuplicateInHistory(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b"), track("c")}, 2)

	// a sits in history; picking it again pulls it forward.
	at := tl.PlaySingle(track("a"))

	if at != 2 {
		t.Errorf("PlaySingle returned %d, want 2", at)
	}
	assertOrder(t, tl, "b", "c", "a")
	if tl.Current().ID != "a" {
		t.Errorf("Current().ID = %q, want a", tl.Current().ID)
	}
}

func TestPlaySingle_CurrentTrackAgain(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b")}, 0)

	// The entry at the current index is exempt from dedup.
	at := tl.PlaySingle(track("a"))

	if at != 1 {
		t.Errorf("PlaySingle returned %d, want 1", at)
	}
	assertOrder(t, tl, "a", "a", "b")
	assertNoFutureDup(t, tl)
}

func TestPlayList_Empty(t *testing.T) {
	tl := New()

	at := tl.PlayList([]Track{track("a"), track("b")}, 1)

	if at != 1 {
		t.Errorf("PlayList returned %d, want 1", at)
	}
	assertOrder(t, tl, "a", "b")
	if tl.Current().ID != "b" {
		t.Errorf("Current().ID = %q, want b", tl.Current().ID)
	}
}

func TestPlayList_ClampsStartIndex(t *testing.T) {
	tl := New()

	at := tl.PlayList([]Track{track("a"), track("b")}, 17)

	if at != 1 {
		t.Errorf("PlayList returned %d, want 1 (clamped)", at)
	}
}

func TestPlayList_MergesAfterCurrent(t *testing.T) {
	// Timeline [a*, b, c]; playList([c, d], 0): c relocates to the insert
	// point, d is novel, old future keeps only b.
	tl := New()
	tl.Replace([]Track{track("a"), track("b"), track("c")}, 0)

	at := tl.PlayList([]Track{track("c"), track("d")}, 0)

	assertOrder(t, tl, "a", "c", "d", "b")
	if at != 1 {
		t.Errorf("PlayList returned %d, want 1", at)
	}
	if tl.Current().ID != "c" {
		t.Errorf("Current().ID = %q, want c", tl.Current().ID)
	}
	assertNoFutureDup(t, tl)
}

func TestPlayList_PreservesHistory(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b"), track("c"), track("d")}, 1)

	tl.PlayList([]Track{track("x"), track("d")}, 0)

	assertOrder(t, tl, "a", "b", "x", "d", "c")
	if tl.Current().ID != "x" {
		t.Errorf("Current().ID = %q, want x", tl.Current().ID)
	}
}

func TestPlayList_AllInHistory_Jumps(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b"), track("c")}, 2)

	// a and b are both history; no insertion, jump to the occurrence of b.
	at := tl.PlayList([]Track{track("a"), track("b")}, 1)

	assertOrder(t, tl, "a", "b", "c")
	if at != 1 {
		t.Errorf("PlayList returned %d, want 1", at)
	}
	if tl.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", tl.CurrentIndex())
	}
}

func TestPlayList_EmptyTracks_NoOp(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b")}, 0)

	at := tl.PlayList(nil, 0)

	if at != -1 {
		t.Errorf("PlayList returned %d, want -1", at)
	}
	assertOrder(t, tl, "a", "b")
	if tl.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0 (untouched)", tl.CurrentIndex())
	}
}

func TestPlayList_DuplicateIDsInInput(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a")}, 0)

	tl.PlayList([]Track{track("x"), track("x"), track("y")}, 0)

	assertOrder(t, tl, "a", "x", "y")
	assertNoFutureDup(t, tl)
}

func TestAppend(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b")}, 0)

	added, play := tl.Append([]Track{track("b"), track("c"), track("d")})

	if play != -1 {
		t.Errorf("play index = %d, want -1 (already playing)", play)
	}
	if len(added) != 2 || added[0] != 2 || added[1] != 3 {
		t.Errorf("added = %v, want [2 3]", added)
	}
	assertOrder(t, tl, "a", "b", "c", "d")
	assertNoFutureDup(t, tl)
}

func TestAppend_StartsPlaybackWhenIdle(t *testing.T) {
	tl := New()

	added, play := tl.Append([]Track{track("a"), track("b")})

	if play != 0 {
		t.Errorf("play index = %d, want 0", play)
	}
	if len(added) != 2 {
		t.Errorf("added = %v, want two entries", added)
	}
	if tl.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", tl.CurrentIndex())
	}
}

func TestAppend_AllDuplicates(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b")}, 0)

	added, play := tl.Append([]Track{track("a"), track("b")})

	if len(added) != 0 || play != -1 {
		t.Errorf("Append = (%v, %d), want (nil, -1)", added, play)
	}
	assertOrder(t, tl, "a", "b")
}

func TestRemoveAt_GuardsHistoryAndCurrent(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b"), track("c")}, 1)

	for _, i := range []int{-1, 0, 1, 3, 42} {
		if tl.RemoveAt(i) {
			t.Errorf("RemoveAt(%d) = true, want false", i)
		}
	}
	assertOrder(t, tl, "a", "b", "c")
}

func TestRemoveAt_FutureQueue(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b"), track("c")}, 0)

	if !tl.RemoveAt(1) {
		t.Fatal("RemoveAt(1) = false, want true")
	}
	assertOrder(t, tl, "a", "c")
	if tl.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", tl.CurrentIndex())
	}
}

func TestSplice(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b")}, 1)

	n := tl.Splice([]Track{track("b"), track("c"), track("d")})

	if n != 2 {
		t.Errorf("Splice returned %d, want 2", n)
	}
	assertOrder(t, tl, "a", "b", "c", "d")
	assertNoFutureDup(t, tl)
}

func TestAdvance(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b")}, 0)

	next := tl.Advance()
	if next == nil || next.ID != "b" {
		t.Fatalf("Advance() = %v, want b", next)
	}
	if tl.Advance() != nil {
		t.Error("Advance() past the end should return nil")
	}
	if tl.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", tl.CurrentIndex())
	}
}

func TestSetCurrent_Invalid(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a")}, 0)

	if tl.SetCurrent(5) {
		t.Error("SetCurrent(5) = true, want false")
	}
	if tl.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", tl.CurrentIndex())
	}
}

// TestDedupInvariant_MixedOperations drives a sequence of mutations and
// checks the future queue never holds the same id twice.
func TestDedupInvariant_MixedOperations(t *testing.T) {
	tl := New()

	tl.PlaySingle(track("a"))
	assertNoFutureDup(t, tl)

	tl.PlayList([]Track{track("b"), track("c"), track("a")}, 0)
	assertNoFutureDup(t, tl)

	tl.Append([]Track{track("c"), track("d"), track("e")})
	assertNoFutureDup(t, tl)

	tl.PlaySingle(track("e"))
	assertNoFutureDup(t, tl)

	tl.PlayList([]Track{track("f"), track("d")}, 1)
	assertNoFutureDup(t, tl)
}

func TestClear(t *testing.T) {
	tl := New()
	tl.Replace([]Track{track("a"), track("b")}, 1)

	tl.Clear()

	if tl.Len() != 0 || tl.CurrentIndex() != -1 {
		t.Errorf("Clear left Len=%d CurrentIndex=%d", tl.Len(), tl.CurrentIndex())
	}
}
