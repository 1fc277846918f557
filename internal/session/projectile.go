package session

import (
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/projectile"
	"github.com/san-kum/physlab/internal/scheduler"
)

// Projectile drives a projectile.Run. Its tick is scheduled only while a
// flight is in progress.
type Projectile struct {
	sched scheduler.Scheduler
	dt    float64

	mu     sync.Mutex
	run    *projectile.Run
	handle scheduler.Handle
	gen    uint64
	closed bool

	unsubscribe func()
	snap        atomic.Pointer[projectile.Snapshot]
	logger      *log.Entry
}

// NewProjectile creates a session following the projectile parameters in
// store. Any change to them resets the run. A non-positive dt falls back to
// projectile.TimeStep.
func NewProjectile(store *config.Store, sched scheduler.Scheduler, dt float64) *Projectile {
	if !(dt > 0) || !dynamo.Finite(dt) {
		dt = projectile.TimeStep
	}
	p := &Projectile{
		sched:  sched,
		dt:     dt,
		run:    projectile.NewRun(store.Snapshot().Projectile()),
		logger: log.WithField("session", "projectile"),
	}
	p.publish()
	p.unsubscribe = store.Subscribe(p.onChange)
	return p
}

// Launch starts a fresh flight, restarting one already in progress.
// Degenerate parameters leave the run Idle and return the condition.
func (p *Projectile) Launch() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return dynamo.ErrSessionClosed
	}

	err := p.run.Launch()
	if err != nil {
		p.cancelFlight()
		p.logger.WithError(err).Warn("launch rejected")
	} else {
		p.startFlight()
		p.logger.WithFields(log.Fields{
			"velocity": p.run.Params().V0,
			"angle":    p.run.Params().AngleDeg,
			"gravity":  p.run.Params().G,
		}).Debug("launched")
	}
	p.publish()
	return err
}

// Reset returns the run to Idle.
func (p *Projectile) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return dynamo.ErrSessionClosed
	}
	p.run.Reset()
	p.cancelFlight()
	p.publish()
	return nil
}

// Stop cancels any flight and detaches from the store. It is idempotent.
func (p *Projectile) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.cancelFlight()
	p.mu.Unlock()
	p.unsubscribe()
}

// InFlight reports whether a tick is currently scheduled.
func (p *Projectile) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle != nil
}

// Snapshot returns the state published by the last command or tick.
func (p *Projectile) Snapshot() *projectile.Snapshot { return p.snap.Load() }

func (p *Projectile) onChange(c config.Change) {
	if !c.ProjectileChanged() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.run.SetParams(c.New.Projectile())
	p.cancelFlight()
	p.publish()
}

// startFlight keeps an existing tick for a relaunch; the run itself has
// already restarted from elapsed 0.
func (p *Projectile) startFlight() {
	if p.handle != nil {
		return
	}
	p.gen++
	gen := p.gen
	p.handle = p.sched.Schedule(func() { p.frame(gen) })
}

func (p *Projectile) cancelFlight() {
	if p.handle == nil {
		return
	}
	p.handle.Cancel()
	p.handle = nil
	p.gen++
}

func (p *Projectile) frame(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// A tick from a cancelled flight may still be running on another goroutine.
	if p.closed || gen != p.gen {
		return
	}
	if !p.run.Tick(p.dt) {
		p.cancelFlight()
		st := p.run.State()
		p.logger.WithFields(log.Fields{"phase": st.Phase, "elapsed": st.Elapsed}).Debug("flight ended")
	}
	p.publish()
}

func (p *Projectile) publish() {
	s := p.run.Snapshot()
	p.snap.Store(&s)
}
