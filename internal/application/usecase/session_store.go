// internal/application/usecase/session_store.go
package usecase

import (
	"sync"

	"tradehub/internal/domain/session"
)

// SessionState is the observable auth state. Known is false until the first
// provider answer (restore or explicit sign-in/out) arrives; after that the
// state is always Known, with Session nil when signed out.
type SessionState struct {
	Known   bool
	Session *session.Session
}

// SessionStore holds the single authoritative current-session value for one
// running client. It is constructed once and passed by reference to the auth
// usecase (single writer) and any number of observers.
//
// Callbacks run outside the store lock, so a subscriber may read Current,
// subscribe, or unsubscribe from inside its own callback. Publishing from a
// callback is not supported; publish belongs to the auth usecase alone.
type SessionStore struct {
	mu     sync.Mutex
	state  SessionState
	seq    uint64
	subs   map[int]*sessionSubscriber
	nextID int
}

// sessionSubscriber orders deliveries for one observer. The per-subscriber
// lock plus the sequence guard keeps each observer's view monotonic even
// when the initial fire races a publish.
type sessionSubscriber struct {
	mu      sync.Mutex
	fn      func(SessionState)
	lastSeq uint64
}

// notify delivers st unless this subscriber has already seen a newer state.
func (sub *sessionSubscriber) notify(seq uint64, st SessionState) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if seq <= sub.lastSeq {
		return
	}
	sub.lastSeq = seq
	sub.fn(st)
}

func NewSessionStore() *SessionStore {
	return &SessionStore{seq: 1, subs: make(map[int]*sessionSubscriber)}
}

// Current returns the last published state.
func (s *SessionStore) Current() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn and fires it once immediately with the current
// state. Every subscriber observes the same monotonic sequence of values.
// The returned Unsubscribe is idempotent.
func (s *SessionStore) Subscribe(fn func(SessionState)) func() {
	if fn == nil {
		return func() {}
	}
	sub := &sessionSubscriber{fn: fn}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	cur, seq := s.state, s.seq
	s.mu.Unlock()

	// Initial fire happens outside the lock; the sequence guard drops it if
	// a publish has already reached this subscriber in the meantime.
	sub.notify(seq, cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// publish replaces the state and notifies subscribers in registration order.
// Only the auth usecase calls this.
func (s *SessionStore) publish(next SessionState) {
	s.mu.Lock()
	s.state = next
	s.seq++
	seq := s.seq
	subs := make([]*sessionSubscriber, 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if sub, ok := s.subs[id]; ok {
			subs = append(subs, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.notify(seq, next)
	}
}
