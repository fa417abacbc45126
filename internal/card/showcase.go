package card

import (
	"math"
	"time"

	"github.com/olivier-w/holocard/internal/frame"
	"github.com/olivier-w/holocard/internal/spring"
)

const (
	showcaseDelay    = 2 * time.Second
	showcaseInterval = 20 * time.Millisecond
	showcaseLength   = 4 * time.Second
	showcasePhase    = 0.05
)

var showcaseProfile = spring.Profile{Stiffness: 0.02, Damping: 0.5}

// showcase tracks the timers of the idle demo sweep. Once stopped it never
// restarts for the lifetime of the card.
type showcase struct {
	running bool
	start   frame.ID
	tick    frame.ID
	end     frame.ID
}

func (c *Controller) startShowcase() {
	if !c.visible {
		return
	}
	sched := c.deps.Scheduler
	c.showcase.running = true
	c.log.Debug("showcase scheduled")

	c.showcase.start = sched.AfterFunc(showcaseDelay, func() {
		c.showcase.start = 0
		if !c.visible {
			c.showcase.running = false
			return
		}
		c.interacting = true

		c.rotate.SetProfile(showcaseProfile)
		c.glare.SetProfile(showcaseProfile)
		c.background.SetProfile(showcaseProfile)

		r := 0.0
		c.showcase.tick = sched.Every(showcaseInterval, func() {
			r += showcasePhase
			sin, cos := math.Sin(r), math.Cos(r)
			c.rotate.Set(spring.Point{X: sin * 25, Y: cos * 25})
			c.glare.Set(spring.Glare{X: 55 + sin*55, Y: 55 + cos*55, O: 0.8})
			c.background.Set(spring.Point{X: 20 + sin*20, Y: 20 + cos*20})
		})

		c.showcase.end = sched.AfterFunc(showcaseLength, func() {
			c.showcase.end = 0
			sched.CancelTimer(c.showcase.tick)
			c.showcase.tick = 0
			c.showcase.running = false
			c.InteractEnd(0)
		})
	})
}

// endShowcase cancels any scheduled or running showcase.
func (c *Controller) endShowcase() {
	if !c.showcase.running {
		return
	}
	sched := c.deps.Scheduler
	sched.CancelTimer(c.showcase.end)
	sched.CancelTimer(c.showcase.start)
	sched.CancelTimer(c.showcase.tick)
	c.showcase = showcase{}
	c.log.Debug("showcase cancelled")
}
