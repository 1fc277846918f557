package session

import (
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/scheduler"
	"github.com/san-kum/physlab/internal/thermal"
)

// InboxSize bounds the commands queued between two frames.
const InboxSize = 1024

// ThermalSnapshot is an immutable view of the plate after a frame.
type ThermalSnapshot struct {
	Field        thermal.Field `json:"field"`
	Energy       float64       `json:"energy"`
	Max          float64       `json:"max"`
	Steps        uint64        `json:"steps"`
	Conductivity float64       `json:"conductivity"`
	Paused       bool          `json:"paused"`
}

// Thermal runs one diffusion step per frame. Injections and clears arrive
// through a buffered inbox and are applied at the start of the next frame,
// so none of them ever lands inside a step.
type Thermal struct {
	store *config.Store
	grid  *thermal.Grid
	inbox chan func(*thermal.Grid)
	snap  atomic.Pointer[ThermalSnapshot]

	paused atomic.Bool
	closed atomic.Bool

	mu     sync.Mutex
	handle scheduler.Handle

	logger *log.Entry
}

func NewThermal(store *config.Store) *Thermal {
	s := &Thermal{
		store:  store,
		grid:   thermal.NewGrid(),
		inbox:  make(chan func(*thermal.Grid), InboxSize),
		logger: log.WithField("session", "thermal"),
	}
	s.publish()
	return s
}

// Start schedules the frame callback. Starting twice is a no-op.
func (s *Thermal) Start(sched scheduler.Scheduler) error {
	if s.closed.Load() {
		return dynamo.ErrSessionClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil {
		return nil
	}
	s.handle = sched.Schedule(s.frame)
	s.logger.WithField("conductivity", s.store.Snapshot().Conductivity).Info("thermal session started")
	return nil
}

// Stop cancels the frame callback and waits for a frame already running.
// Pending commands are discarded.
func (s *Thermal) Stop() {
	if s.closed.Swap(true) {
		return
	}
	s.mu.Lock()
	if s.handle != nil {
		s.handle.Cancel()
	}
	s.mu.Unlock()
	s.logger.WithField("steps", s.snap.Load().Steps).Info("thermal session stopped")
}

// Inject queues a heat injection at cell (x, y). Out-of-bounds cells are
// ignored when applied. A full inbox drops the injection.
func (s *Thermal) Inject(x, y int, amount float64) error {
	return s.send(func(g *thermal.Grid) {
		if !g.InjectHeat(x, y, amount) {
			s.logger.WithFields(log.Fields{"x": x, "y": y, "amount": amount}).Debug("injection ignored")
		}
	})
}

// Brush injects the standard brush amount at the cell under a pointer
// position on a w×h surface.
func (s *Thermal) Brush(px, py, w, h float64) error {
	x, y := thermal.CellAt(px, py, w, h)
	return s.Inject(x, y, thermal.BrushAmount)
}

// Clear queues a reset of the plate to ambient.
func (s *Thermal) Clear() error {
	return s.send(func(g *thermal.Grid) { g.Reset() })
}

func (s *Thermal) send(cmd func(*thermal.Grid)) error {
	if s.closed.Load() {
		return dynamo.ErrSessionClosed
	}
	select {
	case s.inbox <- cmd:
	default:
		s.logger.Warn("inbox full, command dropped")
	}
	return nil
}

// SetPaused stops or resumes diffusion. Commands still apply while paused.
func (s *Thermal) SetPaused(p bool) { s.paused.Store(p) }

func (s *Thermal) Paused() bool { return s.paused.Load() }

// Snapshot returns the state published by the last frame.
func (s *Thermal) Snapshot() *ThermalSnapshot { return s.snap.Load() }

func (s *Thermal) frame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return
	}
	s.drain()
	if !s.paused.Load() {
		s.grid.Step(s.store.Snapshot().Conductivity)
	}
	s.publish()
}

func (s *Thermal) drain() {
	for {
		select {
		case cmd := <-s.inbox:
			cmd(s.grid)
		default:
			return
		}
	}
}

func (s *Thermal) publish() {
	s.snap.Store(&ThermalSnapshot{
		Field:        s.grid.Snapshot(),
		Energy:       s.grid.Energy(),
		Max:          s.grid.MaxTemperature(),
		Steps:        s.grid.Steps(),
		Conductivity: s.store.Snapshot().Conductivity,
		Paused:       s.paused.Load(),
	})
}
