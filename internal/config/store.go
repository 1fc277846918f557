package config

import (
	"sync"
)

// Change describes one store update.
type Change struct {
	Old, New SimConfig
}

// ProjectileChanged reports whether the launch parameters differ.
func (c Change) ProjectileChanged() bool {
	return c.Old.Projectile() != c.New.Projectile()
}

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	Velocity     *float64 `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	Angle        *float64 `json:"angle,omitempty" yaml:"angle,omitempty"`
	Gravity      *float64 `json:"gravity,omitempty" yaml:"gravity,omitempty"`
	Conductivity *float64 `json:"conductivity,omitempty" yaml:"conductivity,omitempty"`
}

// Apply returns c with the patch applied, unclamped.
func (p Patch) Apply(c SimConfig) SimConfig {
	p.apply(&c)
	return c
}

func (p Patch) apply(c *SimConfig) {
	if p.Velocity != nil {
		c.Velocity = *p.Velocity
	}
	if p.Angle != nil {
		c.Angle = *p.Angle
	}
	if p.Gravity != nil {
		c.Gravity = *p.Gravity
	}
	if p.Conductivity != nil {
		c.Conductivity = *p.Conductivity
	}
}

// Store holds the live, user-editable SimConfig. Kernels only ever see
// Snapshot values and never write back. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	cfg    SimConfig
	subs   map[int]func(Change)
	nextID int
	// notifyMu orders updates with their notifications. Subscribers must
	// not update the store.
	notifyMu sync.Mutex
}

func NewStore(initial SimConfig) *Store {
	return &Store{
		cfg:  initial.Clamped(),
		subs: make(map[int]func(Change)),
	}
}

func (s *Store) Snapshot() SimConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Store) SetVelocity(v float64) bool {
	return s.Update(func(c *SimConfig) { c.Velocity = v })
}

func (s *Store) SetAngle(v float64) bool {
	return s.Update(func(c *SimConfig) { c.Angle = v })
}

func (s *Store) SetGravity(v float64) bool {
	return s.Update(func(c *SimConfig) { c.Gravity = v })
}

func (s *Store) SetConductivity(v float64) bool {
	return s.Update(func(c *SimConfig) { c.Conductivity = v })
}

// Merge applies a partial update.
func (s *Store) Merge(p Patch) bool {
	return s.Update(p.apply)
}

// Replace swaps in a whole config, e.g. a preset.
func (s *Store) Replace(c SimConfig) bool {
	return s.Update(func(cur *SimConfig) { *cur = c })
}

// Update edits the config through fn, clamps the result and notifies
// subscribers if anything changed. Subscribers run on the caller's goroutine
// after the store lock is released, serialised so they see changes in the
// order they were stored.
func (s *Store) Update(fn func(*SimConfig)) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	old := s.cfg
	next := old
	fn(&next)
	next = next.Clamped()
	if next == old {
		s.mu.Unlock()
		return false
	}
	s.cfg = next
	subs := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	ch := Change{Old: old, New: next}
	for _, fn := range subs {
		fn(ch)
	}
	return true
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}
