package frame

import "time"

// Slot holds at most one pending one-shot timer. Scheduling into a slot
// replaces whatever was pending there.
type Slot struct {
	sched Scheduler
	id    ID
}

// NewSlot creates an empty Slot on sched.
func NewSlot(sched Scheduler) *Slot {
	return &Slot{sched: sched}
}

// Schedule cancels any pending timer in the slot and arms fn after d.
func (s *Slot) Schedule(d time.Duration, fn func()) {
	s.Cancel()
	var id ID
	id = s.sched.AfterFunc(d, func() {
		if s.id == id {
			s.id = 0
		}
		fn()
	})
	s.id = id
}

// Cancel drops the pending timer, if any.
func (s *Slot) Cancel() {
	if s.id == 0 {
		return
	}
	s.sched.CancelTimer(s.id)
	s.id = 0
}

// Pending reports whether the slot holds an armed timer.
func (s *Slot) Pending() bool {
	return s.id != 0
}
