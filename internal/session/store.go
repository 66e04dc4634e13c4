// Package session holds the single source of truth for the playback
// session: current track, transport flags, mode, volume, provider identity.
// The store is pure data; it never performs I/O and mutating one field never
// implies another (setting the current track does not start playback).
//
// Multiple UI surfaces observe the store through Subscribe. Mutators live in
// the playback service; observers only read.
package session

import (
	"sync"
	"time"

	"github.com/lmorel/chorus/internal/timeline"
)

// Store is the authoritative session state container.
type Store struct {
	mu    sync.RWMutex
	state State

	subsMu sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewStore creates a store with default state.
func NewStore() *Store {
	return &Store{
		state: defaultState(),
		subs:  make(map[int]func()),
	}
}

// Snapshot returns a copy of the full session state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the current track, or nil if none.
func (s *Store) Current() *timeline.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Current
}

// SetCurrent replaces the denormalized current track copy.
func (s *Store) SetCurrent(t *timeline.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t == nil {
		s.state.Current = nil
		return
	}
	cp := *t
	s.state.Current = &cp
}

// Playing reports whether the sink is actively playing.
func (s *Store) Playing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Playing
}

// SetPlaying sets the transport playing flag.
func (s *Store) SetPlaying(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Playing = v
}

// Loading reports whether a track change is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}

// SetLoading sets the loading flag.
func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = v
}

// Err returns the last recoverable playback error message.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Err
}

// SetErr sets the playback error message; empty clears it.
func (s *Store) SetErr(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = msg
}

// SetProgress mirrors the sink's position and duration into the session.
func (s *Store) SetProgress(position, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Position = position
	s.state.Duration = duration
}

// Mode returns the play mode.
func (s *Store) Mode() PlayMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Mode
}

// SetMode sets the play mode. Unknown modes are ignored.
func (s *Store) SetMode(m PlayMode) {
	if !m.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Mode = m
}

// Volume returns the session volume.
func (s *Store) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Volume
}

// SetVolume sets the session volume, clamped to [0, 1].
func (s *Store) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Volume = v
}

// Quality returns the preferred quality tier.
func (s *Store) Quality() Quality {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Quality
}

// SetQuality sets the preferred quality tier.
func (s *Store) SetQuality(q Quality) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Quality = q
}

// Provider returns the active provider id.
func (s *Store) Provider() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Provider
}

// SetProvider sets the active provider id.
func (s *Store) SetProvider(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Provider = id
}

// Lyric returns the current lyric payload, or nil.
func (s *Store) Lyric() *Lyric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Lyric
}

// SetLyric replaces the lyric payload; nil clears it.
func (s *Store) SetLyric(l *Lyric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Lyric = l
}

// SettingsRestored reports whether persisted state was applied at boot.
func (s *Store) SettingsRestored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SettingsRestored
}

// SetSettingsRestored marks the boot restoration as done.
func (s *Store) SetSettingsRestored(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SettingsRestored = v
}

// SaveEnabled reports whether persistence writes are allowed.
func (s *Store) SaveEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SaveEnabled
}

// SetSaveEnabled toggles persistence writes; disabled during teardown.
func (s *Store) SetSaveEnabled(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SaveEnabled = v
}

// Reset restores every field to its default and drops all subscribers.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = defaultState()
	s.mu.Unlock()

	s.subsMu.Lock()
	s.subs = make(map[int]func())
	s.subsMu.Unlock()
}
