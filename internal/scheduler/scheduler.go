// Package scheduler drives per-frame callbacks.
//
// A [Scheduler] repeatedly invokes a callback once per frame until the
// returned [Handle] is cancelled. Invocations of one callback never overlap:
// the next frame is only requested after the previous call returns.
//
// Two implementations are provided:
//
//   - [Ticker]: wall-clock frames on a dedicated goroutine per handle
//   - [Manual]: frames advanced explicitly, for tests and headless runs
package scheduler

import "time"

// DefaultFPS is the display frame rate assumed when none is configured.
const DefaultFPS = 60

// Handle controls one scheduled callback.
type Handle interface {
	// Cancel stops future invocations. It is idempotent and may be called
	// from inside the callback itself.
	Cancel()
	// Done is closed once no further invocation can start.
	Done() <-chan struct{}
}

// Scheduler starts repeating callbacks.
type Scheduler interface {
	Schedule(fn func()) Handle
}

// Interval converts a frame rate to a frame period, falling back to
// DefaultFPS for non-positive rates.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}
