package projectile

import (
	"math"
	"testing"

	"github.com/san-kum/physlab/internal/kinematics"
)

func TestTransition(t *testing.T) {
	ok := kinematics.New(kinematics.Params{V0: 50, AngleDeg: 45, G: 9.81})
	flat := kinematics.New(kinematics.Params{V0: 50, AngleDeg: 0, G: 9.81})
	bad := kinematics.New(kinematics.Params{V0: 50, AngleDeg: 45, G: 0})

	tests := []struct {
		name     string
		from     State
		ev       Event
		l        kinematics.Launch
		expected State
	}{
		{"launch from idle", State{Idle, 0}, LaunchCmd{}, ok, State{InFlight, 0}},
		{"launch from flight", State{InFlight, 3}, LaunchCmd{}, ok, State{InFlight, 0}},
		{"launch from landed", State{Landed, 7.3}, LaunchCmd{}, ok, State{InFlight, 0}},
		{"launch degenerate", State{Landed, 7.3}, LaunchCmd{}, bad, State{Idle, 0}},
		{"tick in flight", State{InFlight, 1}, Tick{Dt: 0.5}, ok, State{InFlight, 1.5}},
		{"tick to ground", State{InFlight, 7.2}, Tick{Dt: 0.08}, ok, State{Landed, 7.28}},
		{"tick flat launch", State{InFlight, 0}, Tick{Dt: 0.08}, flat, State{Landed, 0.08}},
		{"tick idle", State{Idle, 0}, Tick{Dt: 0.08}, ok, State{Idle, 0}},
		{"tick landed", State{Landed, 7.28}, Tick{Dt: 0.08}, ok, State{Landed, 7.28}},
		{"tick negative dt", State{InFlight, 1}, Tick{Dt: -0.5}, ok, State{InFlight, 1}},
		{"tick NaN dt", State{InFlight, 1}, Tick{Dt: math.NaN()}, ok, State{InFlight, 1}},
		{"tick degenerate", State{InFlight, 1}, Tick{Dt: 0.08}, bad, State{InFlight, 1}},
		{"reset flight", State{InFlight, 4}, ResetCmd{}, ok, State{Idle, 0}},
		{"reset landed", State{Landed, 7.28}, ResetCmd{}, ok, State{Idle, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transition(tt.from, tt.ev, tt.l)
			if got.Phase != tt.expected.Phase || math.Abs(got.Elapsed-tt.expected.Elapsed) > 1e-9 {
				t.Errorf("Transition(%v, %T) = %v, want %v", tt.from, tt.ev, got, tt.expected)
			}
		})
	}
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		p        Phase
		expected string
	}{
		{Idle, "idle"},
		{InFlight, "in_flight"},
		{Landed, "landed"},
		{Phase(9), "phase(9)"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}

	var p Phase
	if err := p.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("expected error for unknown phase")
	}
}
