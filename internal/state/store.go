// Package state holds the single reactive application state container.
// All mutation goes through Apply; consumers read immutable snapshots
// and may subscribe to change notifications.
package state

import (
	"slices"
	"sync"

	"fokus/internal/models"
)

// Listener receives a state snapshot after every applied patch.
type Listener func(models.AppState)

// Store is the process-wide state container. Construct one with New and
// pass it by reference; there is no package-level instance.
type Store struct {
	mu     sync.Mutex
	state  models.AppState
	nextID int
	subs   map[int]Listener
}

// New returns a Store seeded with the default application state.
func New() *Store {
	return &Store{
		state: models.NewAppState(),
		subs:  make(map[int]Listener),
	}
}

// State returns a snapshot of the current state. The snapshot is a deep
// copy; callers may hold it across further updates.
func (s *Store) State() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.state)
}

// Apply merges the patch into the current state, re-asserts structural
// invariants, and notifies every subscriber with the new snapshot.
// The merge is atomic: no other mutation interleaves with it.
func (s *Store) Apply(p Patch) {
	s.mu.Lock()

	if p.SetUser {
		s.state.User = p.User
	}
	if p.Sessions != nil {
		s.state.Sessions = slices.Clone(*p.Sessions)
	}
	if p.Goals != nil {
		p.Goals.apply(&s.state.Goals)
	}
	if p.Streak != nil {
		p.Streak.apply(&s.state.Streak)
	}
	if p.Settings != nil {
		p.Settings.apply(&s.state.Settings)
	}
	if p.Timer != nil {
		p.Timer.apply(&s.state.Timer)
	}
	if p.UI != nil {
		p.UI.apply(&s.state.UI)
	}

	s.commitAndNotify()
}

// AppendSession appends one session to the log. The log is append-only;
// nothing in the core removes or mutates stored sessions.
func (s *Store) AppendSession(sess models.Session) {
	s.mu.Lock()
	s.state.Sessions = append(slices.Clone(s.state.Sessions), sess)
	s.commitAndNotify()
}

// commitAndNotify re-asserts invariants, releases the lock, and fans the
// new snapshot out to subscribers. Must be called with mu held.
func (s *Store) commitAndNotify() {
	// Invariants that must hold in every reachable state.
	if s.state.Timer.Remaining > s.state.Timer.Duration {
		s.state.Timer.Remaining = s.state.Timer.Duration
	}
	if s.state.Timer.Remaining < 0 {
		s.state.Timer.Remaining = 0
	}
	if s.state.Streak.Longest < s.state.Streak.Current {
		s.state.Streak.Longest = s.state.Streak.Current
	}

	snap := snapshot(s.state)
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	// Notify outside the lock so listeners may read back into the store.
	for _, fn := range listeners {
		fn(snap)
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
// Delivery order across listeners is unspecified.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// snapshot deep-copies the state so callers cannot alias store internals.
func snapshot(st models.AppState) models.AppState {
	out := st
	out.Sessions = slices.Clone(st.Sessions)

	if st.User != nil {
		u := *st.User
		out.User = &u
	}
	if st.Timer.StartTime != nil {
		t := *st.Timer.StartTime
		out.Timer.StartTime = &t
	}
	if st.Streak.LastActiveDate != nil {
		t := *st.Streak.LastActiveDate
		out.Streak.LastActiveDate = &t
	}
	return out
}
