package frame

import "time"

// ID identifies a scheduled frame callback or timer. The zero ID is never
// issued, so it can be used as "nothing pending".
type ID uint64

// Scheduler is the host facility springs and card controllers schedule work
// on. Every callback runs on the goroutine that drives the scheduler.
type Scheduler interface {
	// RequestFrame runs fn once on the next frame.
	RequestFrame(fn func()) ID
	// CancelFrame drops a pending frame callback, including one in the
	// batch currently running. Unknown IDs are ignored.
	CancelFrame(id ID)
	// AfterFunc runs fn once after d has elapsed.
	AfterFunc(d time.Duration, fn func()) ID
	// Every runs fn repeatedly every d until cancelled.
	Every(d time.Duration, fn func()) ID
	// CancelTimer stops a pending timer. Unknown IDs are ignored.
	CancelTimer(id ID)
}

type timer struct {
	due      time.Time
	interval time.Duration
	fn       func()
}

type frameReq struct {
	id ID
	fn func()
}

// minInterval keeps a zero-interval repeating timer from spinning Step forever.
const minInterval = time.Millisecond

// Loop is a cooperative, single-threaded Scheduler. Nothing runs until the
// owner calls Step, which is expected once per rendered frame.
// It is only used from Bubbletea's single-threaded Update loop.
type Loop struct {
	now    time.Time
	last   ID
	frames []frameReq
	timers map[ID]*timer
	// running holds the IDs of the batch Step is working through that
	// have not run or been cancelled yet.
	running map[ID]struct{}
}

// NewLoop creates a Loop whose clock starts at start.
func NewLoop(start time.Time) *Loop {
	return &Loop{
		now:    start,
		timers: make(map[ID]*timer),
	}
}

func (l *Loop) nextID() ID {
	l.last++
	return l.last
}

// Now returns the loop clock.
func (l *Loop) Now() time.Time {
	return l.now
}

// RequestFrame implements Scheduler.
func (l *Loop) RequestFrame(fn func()) ID {
	id := l.nextID()
	l.frames = append(l.frames, frameReq{id: id, fn: fn})
	return id
}

// CancelFrame implements Scheduler.
func (l *Loop) CancelFrame(id ID) {
	if id == 0 {
		return
	}
	if _, ok := l.running[id]; ok {
		delete(l.running, id)
		return
	}
	for i, f := range l.frames {
		if f.id == id {
			l.frames = append(l.frames[:i:i], l.frames[i+1:]...)
			return
		}
	}
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) ID {
	if d < 0 {
		d = 0
	}
	id := l.nextID()
	l.timers[id] = &timer{due: l.now.Add(d), fn: fn}
	return id
}

// Every implements Scheduler.
func (l *Loop) Every(d time.Duration, fn func()) ID {
	if d < minInterval {
		d = minInterval
	}
	id := l.nextID()
	l.timers[id] = &timer{due: l.now.Add(d), interval: d, fn: fn}
	return id
}

// CancelTimer implements Scheduler.
func (l *Loop) CancelTimer(id ID) {
	delete(l.timers, id)
}

// Pending reports whether any frame callback or timer is outstanding.
func (l *Loop) Pending() bool {
	return len(l.frames) > 0 || len(l.timers) > 0
}

// FramePending reports whether a frame callback is waiting for the next Step.
func (l *Loop) FramePending() bool {
	return len(l.frames) > 0
}

// Step advances the clock to now, fires every timer that came due in
// deadline order, then runs the frame callbacks that were requested before
// this frame began. Callbacks requested while the frame runs wait for the
// next Step. A callback cancelled by an earlier one in the same batch is
// skipped. A now earlier than the loop clock only runs the frame.
func (l *Loop) Step(now time.Time) {
	if now.After(l.now) {
		l.fireTimers(now)
		l.now = now
	}

	frames := l.frames
	l.frames = nil
	if len(frames) == 0 {
		return
	}
	l.running = make(map[ID]struct{}, len(frames))
	for _, f := range frames {
		l.running[f.id] = struct{}{}
	}
	for _, f := range frames {
		if _, ok := l.running[f.id]; !ok {
			continue
		}
		delete(l.running, f.id)
		f.fn()
	}
	l.running = nil
}

// Advance steps the loop through total in increments of frame, as a
// renderer running at 1/frame fps would.
func (l *Loop) Advance(total, frame time.Duration) {
	if frame <= 0 {
		frame = total
	}
	for elapsed := time.Duration(0); elapsed < total; {
		step := frame
		if total-elapsed < step {
			step = total - elapsed
		}
		elapsed += step
		l.Step(l.now.Add(step))
	}
}

func (l *Loop) fireTimers(now time.Time) {
	for {
		id, t := l.earliest()
		if t == nil || t.due.After(now) {
			return
		}
		l.now = t.due
		if t.interval > 0 {
			t.due = t.due.Add(t.interval)
		} else {
			delete(l.timers, id)
		}
		t.fn()
	}
}

// earliest picks the timer with the smallest deadline, ties broken by
// scheduling order.
func (l *Loop) earliest() (ID, *timer) {
	var bestID ID
	var best *timer
	for id, t := range l.timers {
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && id < bestID) {
			bestID, best = id, t
		}
	}
	return bestID, best
}
