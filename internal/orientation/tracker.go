package orientation

import "github.com/olivier-w/holocard/internal/store"

// Reading is a device attitude in degrees.
type Reading struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// Sub returns r - o per field.
func (r Reading) Sub(o Reading) Reading {
	return Reading{
		Alpha: r.Alpha - o.Alpha,
		Beta:  r.Beta - o.Beta,
		Gamma: r.Gamma - o.Gamma,
	}
}

// State is what the tracker publishes: the raw attitude and its offset
// from the captured baseline.
type State struct {
	Absolute Reading
	Relative Reading
}

// Event is a raw platform reading. Any field may be missing.
type Event struct {
	Alpha *float64 `json:"alpha"`
	Beta  *float64 `json:"beta"`
	Gamma *float64 `json:"gamma"`
}

// NewEvent builds an Event with all three fields present.
func NewEvent(alpha, beta, gamma float64) Event {
	return Event{Alpha: &alpha, Beta: &beta, Gamma: &gamma}
}

// Reading returns the event with missing fields read as 0.
func (e Event) Reading() Reading {
	return Reading{
		Alpha: valueOr0(e.Alpha),
		Beta:  valueOr0(e.Beta),
		Gamma: valueOr0(e.Gamma),
	}
}

func valueOr0(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Source delivers raw orientation events.
type Source interface {
	// Listen sends events to fn until the returned cancel func is called.
	Listen(fn func(Event)) (cancel func())
}

// Tracker turns raw readings into readings relative to a baseline. The
// first event after construction or ResetBase becomes the new baseline.
type Tracker struct {
	state  *store.Store[State]
	first  bool
	base   Reading
	cancel func()
}

// NewTracker creates an idle Tracker publishing zero readings.
func NewTracker() *Tracker {
	return &Tracker{
		state: store.New(State{}),
		first: true,
	}
}

// Start attaches src. With a nil src the feed stays idle and Start reports
// false. Any previously attached source is detached first.
func (t *Tracker) Start(src Source) bool {
	t.Stop()
	if src == nil {
		return false
	}
	t.cancel = src.Listen(t.Handle)
	return true
}

// Stop detaches the current source, if any.
func (t *Tracker) Stop() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Running reports whether a source is attached.
func (t *Tracker) Running() bool {
	return t.cancel != nil
}

// ResetBase makes the next event the new baseline.
func (t *Tracker) ResetBase() {
	t.first = true
	t.base = Reading{}
}

// Handle processes one raw event and publishes the resulting State.
func (t *Tracker) Handle(e Event) {
	absolute := e.Reading()
	if t.first {
		t.first = false
		t.base = absolute
	}
	t.state.Set(State{
		Absolute: absolute,
		Relative: absolute.Sub(t.base),
	})
}

// Get returns the last published State.
func (t *Tracker) Get() State {
	return t.state.Get()
}

// Subscribe registers fn for every published State, replaying the current one.
func (t *Tracker) Subscribe(fn func(State)) (unsubscribe func()) {
	return t.state.Subscribe(fn)
}

// Subscribers returns the number of registered subscribers.
func (t *Tracker) Subscribers() int {
	return t.state.Len()
}
