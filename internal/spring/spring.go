package spring

import (
	"math"

	"github.com/olivier-w/holocard/internal/frame"
	"github.com/olivier-w/holocard/internal/store"
)

// Defaults applied to zero Config fields.
const (
	DefaultStiffness = 0.066
	DefaultDamping   = 0.25
	DefaultPrecision = 0.01
)

// Config configures a Spring. Zero fields take the defaults, so a zero
// Damping means DefaultDamping. An undamped spring is made by setting the
// Spring's Damping field, or a Profile with zero Damping, after New.
type Config struct {
	Stiffness float64
	Damping   float64
	Precision float64
}

// Profile is a stiffness/damping pair that can be swapped onto a live spring.
type Profile struct {
	Stiffness float64
	Damping   float64
}

// Spring eases a value toward a target with a damped-oscillator step per
// frame. The step is not scaled by frame time: one tick is one frame.
//
// Stiffness and Damping may be changed between ticks; each tick uses
// whatever values are set at that moment.
type Spring[T Value[T]] struct {
	Stiffness float64
	Damping   float64
	Precision float64

	sched    frame.Scheduler
	proto    T
	current  []float64
	target   []float64
	velocity []float64
	out      *store.Store[T]

	frameID   frame.ID
	animating bool
	destroyed bool
}

// New creates a Spring resting at initial. Ticks are scheduled on sched.
func New[T Value[T]](initial T, cfg Config, sched frame.Scheduler) *Spring[T] {
	if cfg.Stiffness == 0 {
		cfg.Stiffness = DefaultStiffness
	}
	if cfg.Damping == 0 {
		cfg.Damping = DefaultDamping
	}
	if cfg.Precision == 0 {
		cfg.Precision = DefaultPrecision
	}

	current := initial.AppendComponents(nil)
	return &Spring[T]{
		Stiffness: cfg.Stiffness,
		Damping:   cfg.Damping,
		Precision: cfg.Precision,
		sched:     sched,
		proto:     initial,
		current:   current,
		target:    initial.AppendComponents(nil),
		velocity:  make([]float64, len(current)),
		out:       store.New(initial),
	}
}

// SetOption modifies how Set applies a new target.
type SetOption func(*setOptions)

type setOptions struct {
	hard bool
	soft bool
}

// Hard makes Set jump straight to the target with no easing.
func Hard() SetOption {
	return func(o *setOptions) { o.hard = true }
}

// Soft marks a call site that eases back toward rest. It follows the same
// spring law as a plain Set.
func Soft() SetOption {
	return func(o *setOptions) { o.soft = true }
}

// Set records v as the new target. With Hard, current jumps to v, velocity is
// zeroed, subscribers are notified before Set returns and any running
// animation stops. Otherwise the animation loop starts if it is idle.
func (s *Spring[T]) Set(v T, opts ...SetOption) {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.target = v.AppendComponents(s.target[:0])

	if o.hard {
		s.current = v.AppendComponents(s.current[:0])
		clear(s.velocity)
		s.publish()
		s.stop()
		return
	}

	s.start()
}

// SetProfile swaps stiffness and damping.
func (s *Spring[T]) SetProfile(p Profile) {
	s.Stiffness = p.Stiffness
	s.Damping = p.Damping
}

// Subscribe registers fn, calls it immediately with the current value and
// returns a function removing that registration.
func (s *Spring[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	return s.out.Subscribe(fn)
}

// Current returns the current value.
func (s *Spring[T]) Current() T {
	return s.proto.FromComponents(s.current)
}

// Target returns the value the spring is easing toward.
func (s *Spring[T]) Target() T {
	return s.proto.FromComponents(s.target)
}

// Velocity returns the per-component velocity in the same shape as T.
func (s *Spring[T]) Velocity() T {
	return s.proto.FromComponents(s.velocity)
}

// Animating reports whether the animation loop is running.
func (s *Spring[T]) Animating() bool {
	return s.animating
}

// Tick advances the spring by one frame, notifies subscribers and reports
// whether every component is within Precision of its target with a
// velocity within Precision of zero.
func (s *Spring[T]) Tick() (settled bool) {
	settled = true
	for i := range s.current {
		force := (s.target[i] - s.current[i]) * s.Stiffness
		damping := s.velocity[i] * s.Damping
		acceleration := force - damping

		s.velocity[i] += acceleration
		s.current[i] += s.velocity[i]

		if math.Abs(s.target[i]-s.current[i]) > s.Precision || math.Abs(s.velocity[i]) > s.Precision {
			settled = false
		}
	}
	s.publish()
	return settled
}

// Destroy stops the animation and drops all subscribers. Safe to call twice.
func (s *Spring[T]) Destroy() {
	s.stop()
	s.out.Clear()
	s.destroyed = true
}

func (s *Spring[T]) publish() {
	s.out.Set(s.proto.FromComponents(s.current))
}

func (s *Spring[T]) start() {
	if s.animating || s.destroyed || s.sched == nil {
		return
	}
	s.animating = true
	s.schedule()
}

func (s *Spring[T]) schedule() {
	var id frame.ID
	id = s.sched.RequestFrame(func() { s.step(id) })
	s.frameID = id
}

// step runs one frame for the callback registered as id. A callback the
// spring no longer owns does nothing.
func (s *Spring[T]) step(id frame.ID) {
	if s.destroyed || id != s.frameID {
		return
	}
	s.frameID = 0
	settled := s.Tick()

	// A subscriber may have stopped or restarted the loop during Tick.
	if !s.animating || s.frameID != 0 {
		return
	}
	if settled {
		s.animating = false
		return
	}
	s.schedule()
}

func (s *Spring[T]) stop() {
	s.animating = false
	if s.frameID != 0 {
		s.sched.CancelFrame(s.frameID)
		s.frameID = 0
	}
}
