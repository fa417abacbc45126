package card

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/olivier-w/holocard/internal/frame"
	"github.com/olivier-w/holocard/internal/orientation"
	"github.com/olivier-w/holocard/internal/spring"
	"github.com/olivier-w/holocard/internal/store"
)

const (
	leaveDelay      = 500 * time.Millisecond
	popoverDelay    = 100 * time.Millisecond
	firstPopDelay   = 1000 * time.Millisecond
	retreatDelay    = 100 * time.Millisecond
	repositionDelay = 300 * time.Millisecond

	maxPopoverScale = 1.75
	popoverFill     = 0.9

	// Orientation tilt is clamped to these many degrees either way.
	tiltLimitX = 16
	tiltLimitY = 18
)

var (
	interactProfile = spring.Profile{Stiffness: 0.066, Damping: 0.25}
	popoverProfile  = spring.Profile{Stiffness: 0.033, Damping: 0.45}
	snapProfile     = spring.Profile{Stiffness: 0.01, Damping: 0.06}
)

var (
	restRotate     = spring.Point{}
	restGlare      = spring.Glare{X: 50, Y: 50, O: 0}
	restBackground = spring.Point{X: 50, Y: 50}
)

// Rect is an axis-aligned box in the host's coordinate space.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Host gives a controller access to the presentation layer's geometry.
// Any method may report ok=false when the information is unavailable.
type Host interface {
	// Layout is the card's untransformed box, used to centre the popover.
	Layout() (Rect, bool)
	// Bounds is the card's on-screen box including translation and scale,
	// used to locate the pointer on the card face.
	Bounds() (Rect, bool)
	// Viewport is the size of the visible area.
	Viewport() (width, height float64, ok bool)
	// Visible reports whether the page is currently shown.
	Visible() bool
}

// Cue is a moment a presentation layer may want to accompany with sound.
type Cue uint8

const (
	CuePopover Cue = iota
	CueSpin
)

// Deps are the shared collaborators of a Controller.
type Deps struct {
	// Active holds the single card shown as the popover. Required.
	Active *store.Store[*Controller]
	// Orientation feeds device tilt to the active card. Optional.
	Orientation *orientation.Tracker
	// Scheduler runs spring frames and timers. Required.
	Scheduler frame.Scheduler
	Host      Host
	Sink      Sink
	Cues      func(Cue)
	Logger    *slog.Logger
	// Rand returns values in [0, 1) for the card's foil seed.
	Rand func() float64
}

// Seed randomises the foil pattern per card.
type Seed struct {
	X, Y    float64
	CosmosX int
	CosmosY int
}

func newSeed(rnd func() float64) Seed {
	x, y := rnd(), rnd()
	return Seed{
		X:       x,
		Y:       y,
		CosmosX: int(math.Floor(x * 734)),
		CosmosY: int(math.Floor(y * 1280)),
	}
}

// Touch is one touch point in client coordinates.
type Touch struct {
	X, Y float64
}

// Controller drives the springs of one card from pointer, touch, tap,
// orientation, scroll and visibility input.
type Controller struct {
	opts Options
	seed Seed
	deps Deps
	log  *slog.Logger

	rotate      *spring.Spring[spring.Point]
	glare       *spring.Spring[spring.Glare]
	background  *spring.Spring[spring.Point]
	rotateDelta *spring.Spring[spring.Point]
	translate   *spring.Spring[spring.Point]
	scale       *spring.Spring[spring.Scalar]

	params Params

	interacting bool
	loading     bool
	visible     bool
	firstPop    bool
	destroyed   bool

	showcase showcase

	interactEnd *frame.Slot
	reposition  *frame.Slot
	unsubs      []func()
}

// NewController creates the controller for one card and subscribes it to
// the shared stores in deps.
func NewController(opts Options, deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Rand == nil {
		deps.Rand = rand.Float64
	}
	opts = opts.Normalize()

	c := &Controller{
		opts:        opts,
		seed:        newSeed(deps.Rand),
		deps:        deps,
		log:         deps.Logger.With("card", opts.Name),
		params:      RestParams(),
		loading:     true,
		firstPop:    true,
		interactEnd: frame.NewSlot(deps.Scheduler),
		reposition:  frame.NewSlot(deps.Scheduler),
	}
	if deps.Host != nil {
		c.visible = deps.Host.Visible()
	}

	interact := spring.Config{Stiffness: interactProfile.Stiffness, Damping: interactProfile.Damping}
	popover := spring.Config{Stiffness: popoverProfile.Stiffness, Damping: popoverProfile.Damping}
	c.rotate = spring.New(restRotate, interact, deps.Scheduler)
	c.glare = spring.New(restGlare, interact, deps.Scheduler)
	c.background = spring.New(restBackground, interact, deps.Scheduler)
	c.rotateDelta = spring.New(spring.Point{}, popover, deps.Scheduler)
	c.translate = spring.New(spring.Point{}, popover, deps.Scheduler)
	c.scale = spring.New(spring.Scalar(1), popover, deps.Scheduler)

	c.bindOutputs()

	c.unsubs = append(c.unsubs, deps.Active.Subscribe(c.onActive))
	if deps.Orientation != nil {
		c.unsubs = append(c.unsubs, deps.Orientation.Subscribe(c.onOrientation))
	}

	if opts.Showcase {
		c.startShowcase()
	}
	return c
}

func (c *Controller) bindOutputs() {
	c.rotate.Subscribe(func(v spring.Point) {
		c.params.setRotation(v, c.rotateDelta.Current())
		c.emit()
	})
	c.glare.Subscribe(func(v spring.Glare) {
		c.params.setGlare(v)
		c.emit()
	})
	c.background.Subscribe(func(v spring.Point) {
		c.params.BackgroundX = v.X
		c.params.BackgroundY = v.Y
		c.emit()
	})
	c.scale.Subscribe(func(v spring.Scalar) {
		c.params.Scale = float64(v)
		c.emit()
	})
	c.translate.Subscribe(func(v spring.Point) {
		c.params.TranslateX = v.X
		c.params.TranslateY = v.Y
		c.emit()
	})
	c.rotateDelta.Subscribe(func(v spring.Point) {
		c.params.setRotation(c.rotate.Current(), v)
		c.emit()
	})
}

func (c *Controller) emit() {
	if c.deps.Sink != nil {
		c.deps.Sink.Apply(c.params)
	}
}

// Options returns the normalised card options.
func (c *Controller) Options() Options { return c.opts }

// Seed returns the card's foil seed.
func (c *Controller) Seed() Seed { return c.seed }

// Params returns the current outputs.
func (c *Controller) Params() Params { return c.params }

// Active reports whether this card is the one held by the active-card store.
func (c *Controller) Active() bool {
	return c.deps.Active.Get() == c
}

// Interacting reports whether pointer, orientation or showcase input is
// driving the tilt.
func (c *Controller) Interacting() bool { return c.interacting }

// Loading reports whether the front image has not arrived yet.
func (c *Controller) Loading() bool { return c.loading }

// Visible reports the last known page visibility.
func (c *Controller) Visible() bool { return c.visible }

// Showcasing reports whether the idle showcase is scheduled or running.
func (c *Controller) Showcasing() bool { return c.showcase.running }

// PointerMove handles a pointer at client coordinates (x, y).
func (c *Controller) PointerMove(x, y float64) {
	if c.destroyed {
		return
	}
	c.endShowcase()

	if !c.visible {
		c.interacting = false
		return
	}
	if active := c.deps.Active.Get(); active != nil && active != c {
		c.interacting = false
		return
	}

	r, ok := c.bounds()
	if !ok {
		return
	}
	c.interacting = true

	percent := spring.Point{
		X: clampPercent(round(100 / r.Width * (x - r.X))),
		Y: clampPercent(round(100 / r.Height * (y - r.Y))),
	}
	center := spring.Point{X: percent.X - 50, Y: percent.Y - 50}

	c.updateSprings(
		spring.Point{
			X: adjust(percent.X, 0, 100, 37, 63),
			Y: adjust(percent.Y, 0, 100, 33, 67),
		},
		spring.Point{
			X: round(-(center.X / 6)),
			Y: round(center.Y / 4),
		},
		spring.Glare{
			X: round(percent.X),
			Y: round(percent.Y),
			O: 1,
		},
	)
}

// TouchMove handles a touch move using the first touch point.
func (c *Controller) TouchMove(touches []Touch) {
	if len(touches) == 0 {
		return
	}
	c.PointerMove(touches[0].X, touches[0].Y)
}

// PointerLeave eases the card back to rest after the default delay.
func (c *Controller) PointerLeave() {
	if c.destroyed {
		return
	}
	c.InteractEnd(leaveDelay)
}

// Blur handles the card losing focus: ease back to rest and, if this card
// is the popover, close it.
func (c *Controller) Blur() {
	if c.destroyed {
		return
	}
	c.InteractEnd(leaveDelay)
	if c.Active() {
		c.deps.Active.Set(nil)
	}
}

// Tap toggles this card as the active popover.
func (c *Controller) Tap() {
	if c.destroyed {
		return
	}
	c.endShowcase()

	if c.Active() {
		c.deps.Active.Set(nil)
		return
	}
	c.deps.Active.Set(c)
	if c.deps.Orientation != nil {
		c.deps.Orientation.ResetBase()
	}
}

// InteractEnd schedules the rotate, glare and background springs to ease
// back to rest on a loose profile after delay. A later call replaces a
// pending one.
func (c *Controller) InteractEnd(delay time.Duration) {
	c.interactEnd.Schedule(delay, func() {
		c.interacting = false

		c.rotate.SetProfile(snapProfile)
		c.rotate.Set(restRotate, spring.Soft())

		c.glare.SetProfile(snapProfile)
		c.glare.Set(restGlare, spring.Soft())

		c.background.SetProfile(snapProfile)
		c.background.Set(restBackground, spring.Soft())
	})
}

// Scroll recentres the popover once scrolling has paused.
func (c *Controller) Scroll() {
	if c.destroyed {
		return
	}
	c.reposition.Schedule(repositionDelay, func() {
		if c.Active() {
			c.setCenter()
		}
	})
}

// SetVisible records page visibility. Hiding the page stops the showcase and
// snaps every spring to rest so nothing animates off-screen.
func (c *Controller) SetVisible(visible bool) {
	if c.destroyed {
		return
	}
	c.visible = visible
	if visible {
		return
	}
	c.interacting = false
	c.endShowcase()
	c.reset()
}

// ImageLoaded clears the loading flag.
func (c *Controller) ImageLoaded() {
	if !c.loading {
		return
	}
	c.loading = false
	c.log.Debug("front image loaded")
}

// Destroy stops all timers and springs and unsubscribes from the shared
// stores. Safe to call twice.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	wasActive := c.Active()
	c.destroyed = true

	c.endShowcase()
	c.interactEnd.Cancel()
	c.reposition.Cancel()
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil

	c.rotate.Destroy()
	c.glare.Destroy()
	c.background.Destroy()
	c.rotateDelta.Destroy()
	c.translate.Destroy()
	c.scale.Destroy()

	if wasActive {
		c.deps.Active.Set(nil)
	}
}

func (c *Controller) onActive(active *Controller) {
	if active != nil && active == c {
		c.popover()
		return
	}
	c.retreat()
}

func (c *Controller) onOrientation(s orientation.State) {
	if !c.Active() {
		return
	}
	c.interacting = true
	c.orientate(s)
}

func (c *Controller) orientate(s orientation.State) {
	x := clamp(s.Relative.Gamma, -tiltLimitX, tiltLimitX)
	y := clamp(s.Relative.Beta, -tiltLimitY, tiltLimitY)

	c.updateSprings(
		spring.Point{
			X: adjust(x, -tiltLimitX, tiltLimitX, 37, 63),
			Y: adjust(y, -tiltLimitY, tiltLimitY, 33, 67),
		},
		spring.Point{
			X: round(-x),
			Y: round(y),
		},
		spring.Glare{
			X: adjust(x, -tiltLimitX, tiltLimitX, 0, 100),
			Y: adjust(y, -tiltLimitY, tiltLimitY, 0, 100),
			O: 1,
		},
	)
}

func (c *Controller) updateSprings(background, rotate spring.Point, glare spring.Glare) {
	c.background.SetProfile(interactProfile)
	c.rotate.SetProfile(interactProfile)
	c.glare.SetProfile(interactProfile)

	c.background.Set(background)
	c.rotate.Set(rotate)
	c.glare.Set(glare)
}

func (c *Controller) popover() {
	delay := popoverDelay
	c.setCenter()

	if c.firstPop {
		delay = firstPopDelay
		c.rotateDelta.Set(spring.Point{X: 360, Y: 0})
		c.cue(CueSpin)
	}
	c.firstPop = false

	if r, ok := c.layout(); ok {
		if vw, vh, ok := c.viewport(); ok {
			c.scale.Set(spring.Scalar(PopoverScale(vw, vh, r.Width, r.Height)))
		}
	}
	c.cue(CuePopover)
	c.log.Debug("popover", "delay", delay)
	c.InteractEnd(delay)
}

func (c *Controller) retreat() {
	c.scale.Set(1, spring.Soft())
	c.translate.Set(spring.Point{}, spring.Soft())
	c.rotateDelta.Set(spring.Point{}, spring.Soft())
	c.InteractEnd(retreatDelay)
}

func (c *Controller) setCenter() {
	r, ok := c.layout()
	if !ok {
		return
	}
	vw, vh, ok := c.viewport()
	if !ok {
		return
	}
	c.translate.Set(spring.Point{
		X: round(vw/2 - r.X - r.Width/2),
		Y: round(vh/2 - r.Y - r.Height/2),
	})
}

func (c *Controller) reset() {
	c.InteractEnd(0)
	c.scale.Set(1, spring.Hard())
	c.translate.Set(spring.Point{}, spring.Hard())
	c.rotateDelta.Set(spring.Point{}, spring.Hard())
	c.rotate.Set(restRotate, spring.Hard())
	c.glare.Set(restGlare, spring.Hard())
	c.background.Set(restBackground, spring.Hard())
}

func (c *Controller) cue(cue Cue) {
	if c.deps.Cues != nil {
		c.deps.Cues(cue)
	}
}

func (c *Controller) layout() (Rect, bool) {
	if c.deps.Host == nil {
		return Rect{}, false
	}
	r, ok := c.deps.Host.Layout()
	if !ok || r.Width <= 0 || r.Height <= 0 {
		return Rect{}, false
	}
	return r, true
}

func (c *Controller) bounds() (Rect, bool) {
	if c.deps.Host == nil {
		return Rect{}, false
	}
	r, ok := c.deps.Host.Bounds()
	if !ok || r.Width <= 0 || r.Height <= 0 {
		return Rect{}, false
	}
	return r, true
}

func (c *Controller) viewport() (float64, float64, bool) {
	if c.deps.Host == nil {
		return 0, 0, false
	}
	w, h, ok := c.deps.Host.Viewport()
	if !ok || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
