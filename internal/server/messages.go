package server

import (
	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/projectile"
	"github.com/san-kum/physlab/internal/session"
)

// Client request types.
const (
	TypeLaunch = "launch"
	TypeReset  = "reset"
	TypeHeat   = "heat"
	TypeClear  = "clear"
	TypeConfig = "config"
	TypePause  = "pause"
)

// Server message types.
const (
	TypeThermal    = "thermal"
	TypeProjectile = "projectile"
	TypeError      = "error"
)

// Request is a client message. Fields not used by Type are ignored; a config
// request only changes the fields it carries.
type Request struct {
	Type   string   `json:"type"`
	X      int      `json:"x"`
	Y      int      `json:"y"`
	Amount *float64 `json:"amount,omitempty"`
	Paused bool     `json:"paused"`
	config.Patch
}

// Msg is the generic server reply, used for errors.
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type ThermalMsg struct {
	Type string `json:"type"`
	*session.ThermalSnapshot
}

type ProjectileMsg struct {
	Type string `json:"type"`
	*projectile.Snapshot
	Launch string `json:"launch_label"`
	Clock  string `json:"clock"`
}

type ConfigMsg struct {
	Type string `json:"type"`
	config.SimConfig
}

func thermalMsg(s *session.ThermalSnapshot) ThermalMsg {
	return ThermalMsg{Type: TypeThermal, ThermalSnapshot: s}
}

func projectileMsg(s *projectile.Snapshot) ProjectileMsg {
	label := "Launch"
	if s.Relaunch() {
		label = "Re-Launch"
	}
	return ProjectileMsg{Type: TypeProjectile, Snapshot: s, Launch: label, Clock: s.Clock()}
}

func errorMsg(err error) Msg {
	return Msg{Type: TypeError, Content: err.Error()}
}
