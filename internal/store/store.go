package store

// Store holds a single value and pushes every change to its subscribers.
// Notification is synchronous and follows subscription order. A Store is not
// safe for concurrent use; it is only touched from Bubbletea's Update loop.
type Store[V any] struct {
	value V
	subs  []subscriber[V]
	last  uint64
}

type subscriber[V any] struct {
	id uint64
	fn func(V)
}

// New creates a Store holding initial.
func New[V any](initial V) *Store[V] {
	return &Store[V]{value: initial}
}

// Get returns the current value.
func (s *Store[V]) Get() V {
	return s.value
}

// Set replaces the value and notifies every subscriber before returning.
// Subscribers added or removed during notification take effect on the next Set.
func (s *Store[V]) Set(v V) {
	s.value = v
	s.notify()
}

func (s *Store[V]) notify() {
	subs := s.subs
	for _, sub := range subs {
		sub.fn(s.value)
	}
}

// Subscribe registers fn, calls it once with the current value and returns a
// function that removes exactly this registration. The same fn may be
// registered more than once; each registration is notified.
func (s *Store[V]) Subscribe(fn func(V)) (unsubscribe func()) {
	s.last++
	id := s.last
	s.subs = append(s.subs, subscriber[V]{id: id, fn: fn})
	fn(s.value)

	return func() {
		s.remove(id)
	}
}

func (s *Store[V]) remove(id uint64) {
	for i, sub := range s.subs {
		if sub.id == id {
			// Copy so an in-flight notify keeps iterating its own snapshot.
			next := make([]subscriber[V], 0, len(s.subs)-1)
			next = append(next, s.subs[:i]...)
			next = append(next, s.subs[i+1:]...)
			s.subs = next
			return
		}
	}
}

// Len returns the number of registered subscribers.
func (s *Store[V]) Len() int {
	return len(s.subs)
}

// Clear drops every subscriber.
func (s *Store[V]) Clear() {
	s.subs = nil
}
