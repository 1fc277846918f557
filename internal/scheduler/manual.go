package scheduler

import (
	"sync"
	"sync/atomic"
)

// Manual runs frames only when Advance is called, on the caller's goroutine.
type Manual struct {
	mu     sync.Mutex
	tasks  []*manualTask
	frames uint64
}

func NewManual() *Manual {
	return &Manual{}
}

type manualTask struct {
	fn        func()
	cancelled atomic.Bool
	done      chan struct{}
	once      sync.Once
}

func (t *manualTask) Cancel() {
	t.once.Do(func() {
		t.cancelled.Store(true)
		close(t.done)
	})
}

func (t *manualTask) Done() <-chan struct{} { return t.done }

func (m *Manual) Schedule(fn func()) Handle {
	t := &manualTask{fn: fn, done: make(chan struct{})}
	m.mu.Lock()
	m.tasks = append(m.tasks, t)
	m.mu.Unlock()
	return t
}

// Advance runs n frames. Each frame invokes every live callback once, in
// scheduling order. Callbacks scheduled during a frame first run on the next.
func (m *Manual) Advance(n int) {
	for i := 0; i < n; i++ {
		m.mu.Lock()
		live := m.tasks[:0]
		for _, t := range m.tasks {
			if !t.cancelled.Load() {
				live = append(live, t)
			}
		}
		m.tasks = live
		frame := append([]*manualTask(nil), live...)
		m.frames++
		m.mu.Unlock()

		for _, t := range frame {
			if t.cancelled.Load() {
				continue
			}
			t.fn()
		}
	}
}

// Pending returns the number of callbacks that have not been cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.cancelled.Load() {
			n++
		}
	}
	return n
}

// Frames returns the number of frames advanced so far.
func (m *Manual) Frames() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}
