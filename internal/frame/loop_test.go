package frame

import (
	"testing"
	"time"
)

func TestStepRunsTimersBeforeFrames(t *testing.T) {
	l := NewLoop(time.Time{})
	var order []string

	l.RequestFrame(func() { order = append(order, "frame") })
	l.AfterFunc(10*time.Millisecond, func() { order = append(order, "late") })
	l.AfterFunc(5*time.Millisecond, func() { order = append(order, "early") })

	l.Step(l.Now().Add(16 * time.Millisecond))

	want := []string{"early", "late", "frame"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestFrameRequestedDuringFrameWaitsForNextStep(t *testing.T) {
	l := NewLoop(time.Time{})
	runs := 0
	var tick func()
	tick = func() {
		runs++
		l.RequestFrame(tick)
	}
	l.RequestFrame(tick)

	l.Step(l.Now().Add(time.Millisecond))
	if runs != 1 {
		t.Fatalf("expected 1 run after first step, got %d", runs)
	}
	l.Step(l.Now().Add(time.Millisecond))
	if runs != 2 {
		t.Fatalf("expected 2 runs after second step, got %d", runs)
	}
	if !l.FramePending() {
		t.Fatal("expected re-armed frame to be pending")
	}
}

func TestCancelFrameAndTimer(t *testing.T) {
	l := NewLoop(time.Time{})
	fired := false
	f := l.RequestFrame(func() { fired = true })
	tm := l.AfterFunc(time.Millisecond, func() { fired = true })

	l.CancelFrame(f)
	l.CancelTimer(tm)
	l.CancelTimer(0)
	l.CancelFrame(999)
	l.Step(l.Now().Add(time.Second))

	if fired {
		t.Fatal("expected cancelled callbacks not to run")
	}
	if l.Pending() {
		t.Fatal("expected nothing pending")
	}
}

func TestCancelFrameFromSameBatch(t *testing.T) {
	l := NewLoop(time.Time{})
	ran := false
	var second ID
	l.RequestFrame(func() { l.CancelFrame(second) })
	second = l.RequestFrame(func() { ran = true })

	l.Step(l.Now().Add(time.Millisecond))
	if ran {
		t.Fatal("expected a frame cancelled earlier in the batch to be skipped")
	}
	if l.Pending() {
		t.Fatal("expected nothing pending")
	}

	// Cancelling a callback that already ran is a no-op.
	ran = false
	first := l.RequestFrame(func() { ran = true })
	l.RequestFrame(func() { l.CancelFrame(first) })
	l.Step(l.Now().Add(time.Millisecond))
	if !ran {
		t.Fatal("expected the earlier frame to have run")
	}
}

func TestEveryRepeatsUntilCancelled(t *testing.T) {
	l := NewLoop(time.Time{})
	count := 0
	var id ID
	id = l.Every(20*time.Millisecond, func() {
		count++
		if count == 3 {
			l.CancelTimer(id)
		}
	})

	l.Advance(200*time.Millisecond, 16*time.Millisecond)
	if count != 3 {
		t.Fatalf("expected 3 ticks, got %d", count)
	}
}

func TestEveryCatchesUpWithinOneStep(t *testing.T) {
	l := NewLoop(time.Time{})
	count := 0
	l.Every(20*time.Millisecond, func() { count++ })

	l.Step(l.Now().Add(100 * time.Millisecond))
	if count != 5 {
		t.Fatalf("expected 5 ticks for 100ms at 20ms, got %d", count)
	}
}

func TestTimerSeesItsOwnDeadlineAsNow(t *testing.T) {
	start := time.Unix(0, 0)
	l := NewLoop(start)
	var seen time.Time
	l.AfterFunc(30*time.Millisecond, func() { seen = l.Now() })

	l.Step(start.Add(100 * time.Millisecond))
	if got := seen.Sub(start); got != 30*time.Millisecond {
		t.Fatalf("expected timer to observe +30ms, got %v", got)
	}
	if got := l.Now().Sub(start); got != 100*time.Millisecond {
		t.Fatalf("expected clock at +100ms after step, got %v", got)
	}
}

func TestSlotReplacesPendingTimer(t *testing.T) {
	l := NewLoop(time.Time{})
	s := NewSlot(l)
	var fired []string

	s.Schedule(50*time.Millisecond, func() { fired = append(fired, "first") })
	s.Schedule(80*time.Millisecond, func() { fired = append(fired, "second") })
	if !s.Pending() {
		t.Fatal("expected slot to be pending")
	}

	l.Advance(200*time.Millisecond, 10*time.Millisecond)
	if len(fired) != 1 || fired[0] != "second" {
		t.Fatalf("expected only the replacement to fire, got %v", fired)
	}
	if s.Pending() {
		t.Fatal("expected slot to be empty after firing")
	}
}

func TestSlotCancelIsSafeWhenEmpty(t *testing.T) {
	s := NewSlot(NewLoop(time.Time{}))
	s.Cancel()
	s.Cancel()
	if s.Pending() {
		t.Fatal("expected empty slot")
	}
}

func TestSlotScheduleFromInsideCallback(t *testing.T) {
	l := NewLoop(time.Time{})
	s := NewSlot(l)
	count := 0
	var again func()
	again = func() {
		count++
		if count < 2 {
			s.Schedule(10*time.Millisecond, again)
		}
	}
	s.Schedule(10*time.Millisecond, again)

	l.Advance(100*time.Millisecond, 5*time.Millisecond)
	if count != 2 {
		t.Fatalf("expected 2 runs, got %d", count)
	}
	if s.Pending() {
		t.Fatal("expected slot to drain")
	}
}
