package orientation

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olivier-w/holocard/internal/frame"
)

// Manual is a Source driven by explicit calls, used for keyboard tilt.
type Manual struct {
	fn       func(Event)
	attitude Reading
}

// NewManual creates a Manual source resting at a level attitude.
func NewManual() *Manual {
	return &Manual{}
}

// Listen implements Source.
func (m *Manual) Listen(fn func(Event)) func() {
	m.fn = fn
	return func() { m.fn = nil }
}

// Emit delivers e to the listener, if any.
func (m *Manual) Emit(e Event) {
	if m.fn != nil {
		m.fn(e)
	}
}

// Nudge tilts the simulated device by the given deltas and emits the new
// attitude. Beta is clamped to [-180, 180] and gamma to [-90, 90], the
// ranges a real device reports.
func (m *Manual) Nudge(dBeta, dGamma float64) {
	m.attitude.Beta = clampRange(m.attitude.Beta+dBeta, -180, 180)
	m.attitude.Gamma = clampRange(m.attitude.Gamma+dGamma, -90, 90)
	m.Emit(NewEvent(m.attitude.Alpha, m.attitude.Beta, m.attitude.Gamma))
}

// Attitude returns the simulated absolute attitude.
func (m *Manual) Attitude() Reading {
	return m.attitude
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Replay is a Source that loops over recorded events on a scheduler.
type Replay struct {
	events   []Event
	interval time.Duration
	sched    frame.Scheduler
}

// NewReplay creates a Replay emitting one event every interval on sched.
func NewReplay(events []Event, interval time.Duration, sched frame.Scheduler) *Replay {
	return &Replay{events: events, interval: interval, sched: sched}
}

// Listen implements Source. An empty recording never emits.
func (r *Replay) Listen(fn func(Event)) func() {
	if len(r.events) == 0 {
		return func() {}
	}
	i := 0
	id := r.sched.Every(r.interval, func() {
		fn(r.events[i])
		i = (i + 1) % len(r.events)
	})
	return func() { r.sched.CancelTimer(id) }
}

// LoadRecording reads newline-delimited JSON readings, one object per line,
// e.g. {"alpha":0,"beta":12.5,"gamma":-3}. Blank lines and lines starting
// with '#' are skipped. Missing fields read as 0.
func LoadRecording(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading orientation recording: %w", err)
	}

	var events []Event
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var e Event
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("orientation recording line %d: %w", line, err)
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading orientation recording: %w", err)
	}
	return events, nil
}
