package session

// Subscribe registers fn to be invoked on every Notify and returns an
// unsubscribe function. Unsubscribing twice is harmless.
func (s *Store) Subscribe(fn func()) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

// Notify invokes every registered subscriber. Each mutating operation calls
// this exactly once after all its field writes, so observers always read a
// coherent snapshot. A panicking subscriber never prevents the others from
// running.
func (s *Store) Notify() {
	s.subsMu.Lock()
	callbacks := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		callbacks = append(callbacks, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range callbacks {
		invoke(fn)
	}
}

// SubscriberCount returns the number of registered subscribers.
func (s *Store) SubscriberCount() int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return len(s.subs)
}

func invoke(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
