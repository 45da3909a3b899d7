// internal/store/subscription.go
package store

import "sync"

// Unsubscribe tears down a subscription. It is idempotent and safe to call
// from within the subscription's own callback; once it returns, no new
// delivery begins.
type Unsubscribe func()

// subscription gates callback delivery for one listener binding.
//
// State machine: Active -> Unsubscribed (terminal). The closed flag is
// checked under the mutex immediately before each delivery, and the callback
// runs outside it, so a callback may call its own Unsubscribe (one-shot
// listeners, teardown on not-found) without deadlocking the driver's
// delivery goroutine. The driver serializes callbacks for one subscription,
// so a delivery already executing when Unsubscribe is called simply runs to
// completion; nothing starts after it.
type subscription struct {
	mu     sync.Mutex
	closed bool
	stop   func() // driver-side teardown
	once   sync.Once
}

func newSubscription(stop func()) *subscription {
	return &subscription{stop: stop}
}

// deliver runs fn unless the subscription has been closed.
func (s *subscription) deliver(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn()
}

// unsubscribe closes the gate, then tears down the driver listener.
func (s *subscription) unsubscribe() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		if s.stop != nil {
			s.stop()
		}
	})
}
