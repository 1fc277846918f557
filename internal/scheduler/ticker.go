package scheduler

import (
	"sync"
	"sync/atomic"
	"time"
)

// Ticker schedules callbacks against the wall clock.
type Ticker struct {
	interval time.Duration
}

// NewTicker creates a Ticker running at fps frames per second.
func NewTicker(fps int) *Ticker {
	return &Ticker{interval: Interval(fps)}
}

func (t *Ticker) Interval() time.Duration { return t.interval }

// Schedule starts fn on its own goroutine, once per frame.
func (t *Ticker) Schedule(fn func()) Handle {
	h := newTask()
	go h.loop(t.interval, fn)
	return h
}

type task struct {
	cancelled atomic.Bool
	stop      chan struct{}
	done      chan struct{}
	once      sync.Once
}

func newTask() *task {
	return &task{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (h *task) Cancel() {
	h.once.Do(func() {
		h.cancelled.Store(true)
		close(h.stop)
	})
}

func (h *task) Done() <-chan struct{} { return h.done }

func (h *task) loop(interval time.Duration, fn func()) {
	defer close(h.done)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-timer.C:
		}

		// A frame that fired concurrently with Cancel is dropped.
		if h.cancelled.Load() {
			return
		}
		fn()
		if h.cancelled.Load() {
			return
		}
		timer.Reset(interval)
	}
}
