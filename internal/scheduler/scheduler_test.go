package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

var (
	_ Scheduler = (*Ticker)(nil)
	_ Scheduler = (*Manual)(nil)
)

func TestInterval(t *testing.T) {
	tests := []struct {
		fps      int
		expected time.Duration
	}{
		{60, time.Second / 60},
		{1000, time.Millisecond},
		{0, time.Second / DefaultFPS},
		{-5, time.Second / DefaultFPS},
	}
	for _, tt := range tests {
		if got := Interval(tt.fps); got != tt.expected {
			t.Errorf("Interval(%d) = %v, want %v", tt.fps, got, tt.expected)
		}
	}
}

func waitDone(t *testing.T, h Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("handle did not finish")
	}
}

func TestTicker_RunsUntilCancelled(t *testing.T) {
	var calls atomic.Int64
	h := NewTicker(1000).Schedule(func() { calls.Add(1) })

	deadline := time.After(2 * time.Second)
	for calls.Load() < 5 {
		select {
		case <-deadline:
			t.Fatalf("only %d calls before deadline", calls.Load())
		default:
			time.Sleep(time.Millisecond)
		}
	}

	h.Cancel()
	waitDone(t, h)
	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != after {
		t.Errorf("callback ran after cancel: %d -> %d", after, calls.Load())
	}
}

func TestTicker_NeverOverlaps(t *testing.T) {
	var active, overlaps, calls atomic.Int64
	h := NewTicker(1000).Schedule(func() {
		if active.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(3 * time.Millisecond)
		active.Add(-1)
		calls.Add(1)
	})

	time.Sleep(50 * time.Millisecond)
	h.Cancel()
	waitDone(t, h)

	if overlaps.Load() != 0 {
		t.Errorf("%d overlapping invocations", overlaps.Load())
	}
	if calls.Load() == 0 {
		t.Error("callback never ran")
	}
}

func TestTicker_CancelIdempotent(t *testing.T) {
	var calls atomic.Int64
	h := NewTicker(1000).Schedule(func() { calls.Add(1) })
	h.Cancel()
	h.Cancel()
	waitDone(t, h)
	h.Cancel()

	n := calls.Load()
	time.Sleep(10 * time.Millisecond)
	if calls.Load() != n {
		t.Error("callback ran after repeated cancel")
	}
}

func TestTicker_CancelFromCallback(t *testing.T) {
	var calls atomic.Int64
	var h Handle
	ready := make(chan struct{})
	h = NewTicker(1000).Schedule(func() {
		<-ready
		if calls.Add(1) == 3 {
			h.Cancel()
		}
	})
	close(ready)

	waitDone(t, h)
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 calls, got %d", got)
	}
}

func TestManual_Advance(t *testing.T) {
	m := NewManual()
	var order []string
	a := m.Schedule(func() { order = append(order, "a") })
	m.Schedule(func() { order = append(order, "b") })

	m.Advance(2)
	if len(order) != 4 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected order: %v", order)
	}

	a.Cancel()
	a.Cancel()
	m.Advance(1)
	if len(order) != 5 || order[4] != "b" {
		t.Errorf("cancelled callback ran: %v", order)
	}
	if m.Pending() != 1 {
		t.Errorf("expected 1 pending, got %d", m.Pending())
	}
	if m.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", m.Frames())
	}

	select {
	case <-a.Done():
	default:
		t.Error("cancelled handle not done")
	}
}

func TestManual_CancelDuringFrame(t *testing.T) {
	m := NewManual()
	calls := 0
	var second Handle
	m.Schedule(func() { second.Cancel() })
	second = m.Schedule(func() { calls++ })

	m.Advance(3)
	if calls != 0 {
		t.Errorf("callback cancelled earlier in the frame still ran %d times", calls)
	}
}

func TestManual_ScheduleDuringFrame(t *testing.T) {
	m := NewManual()
	inner := 0
	var once bool
	m.Schedule(func() {
		if !once {
			once = true
			m.Schedule(func() { inner++ })
		}
	})

	m.Advance(1)
	if inner != 0 {
		t.Error("callback scheduled mid-frame ran in the same frame")
	}
	m.Advance(1)
	if inner != 1 {
		t.Errorf("expected 1 inner call, got %d", inner)
	}
}
