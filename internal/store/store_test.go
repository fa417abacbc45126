package store

import "testing"

func TestSubscribeReplaysCurrentValue(t *testing.T) {
	s := New(7)
	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })

	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("expected immediate replay of 7, got %v", got)
	}

	s.Set(9)
	if len(got) != 2 || got[1] != 9 {
		t.Fatalf("expected 9 after set, got %v", got)
	}
}

func TestSetNotifiesInSubscriptionOrder(t *testing.T) {
	s := New("")
	var order []string
	s.Subscribe(func(string) { order = append(order, "a") })
	s.Subscribe(func(string) { order = append(order, "b") })
	s.Subscribe(func(string) { order = append(order, "c") })
	order = nil

	s.Set("x")
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("expected a,b,c, got %v", order)
	}
}

func TestDuplicateSubscriptionsAreIndependent(t *testing.T) {
	s := New(0)
	calls := 0
	fn := func(int) { calls++ }

	unsubA := s.Subscribe(fn)
	s.Subscribe(fn)
	calls = 0

	unsubA()
	unsubA()
	s.Set(1)
	if calls != 1 {
		t.Fatalf("expected remaining registration to fire once, got %d", calls)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", s.Len())
	}
}

func TestNestedSetCompletesBeforeOuterSetReturns(t *testing.T) {
	s := New(0)
	var seen []int
	s.Subscribe(func(v int) {
		seen = append(seen, v)
		if v == 1 {
			s.Set(2)
		}
	})
	seen = nil

	s.Set(1)
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("expected [1 2], got %v", seen)
	}
	if s.Get() != 2 {
		t.Fatalf("expected final value 2, got %d", s.Get())
	}
}

func TestUnsubscribeDuringNotifyKeepsSnapshot(t *testing.T) {
	s := New(0)
	var unsubB func()
	calls := map[string]int{}
	s.Subscribe(func(int) {
		calls["a"]++
		if unsubB != nil {
			unsubB()
		}
	})
	unsubB = s.Subscribe(func(int) { calls["b"]++ })
	calls = map[string]int{}

	s.Set(1)
	if calls["b"] != 1 {
		t.Fatalf("expected b notified from snapshot, got %d", calls["b"])
	}
	s.Set(2)
	if calls["b"] != 1 {
		t.Fatalf("expected b removed after first set, got %d", calls["b"])
	}
}

func TestClearDropsSubscribers(t *testing.T) {
	s := New(0)
	s.Subscribe(func(int) {})
	s.Subscribe(func(int) {})
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("expected no subscribers, got %d", s.Len())
	}
}
