package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/scheduler"
	"github.com/san-kum/physlab/internal/session"
	"github.com/san-kum/physlab/internal/thermal"
)

const (
	writeWait = 5 * time.Second
	outboxLen = 64
)

// Hub serves one websocket client with its own sessions. Requests are read
// on the connection goroutine; all writes go through the outbox to a single
// writer goroutine.
type Hub struct {
	conn       *websocket.Conn
	store      *config.Store
	thermal    *session.Thermal
	projectile *session.Projectile

	handle scheduler.Handle
	every  int
	frames int

	out  chan any
	done chan struct{}
	once sync.Once

	logger *log.Entry
}

func newHub(sim config.SimConfig, sched scheduler.Scheduler, dt float64, every int, logger *log.Entry) *Hub {
	if every <= 0 {
		every = 1
	}
	store := config.NewStore(sim)
	h := &Hub{
		store:      store,
		thermal:    session.NewThermal(store),
		projectile: session.NewProjectile(store, sched, dt),
		every:      every,
		out:        make(chan any, outboxLen),
		done:       make(chan struct{}),
		logger:     logger,
	}
	// The hub frame is scheduled after the thermal one so a Manual scheduler
	// publishes the stepped plate.
	if err := h.thermal.Start(sched); err != nil {
		h.logger.WithError(err).Error("thermal session failed to start")
	}
	h.handle = sched.Schedule(h.frame)
	return h
}

func (h *Hub) frame() {
	h.frames++
	if h.frames%h.every != 0 {
		return
	}
	h.push(thermalMsg(h.thermal.Snapshot()))
	h.push(projectileMsg(h.projectile.Snapshot()))
}

func (h *Hub) push(msg any) {
	select {
	case <-h.done:
	case h.out <- msg:
	default:
		h.logger.Debug("outbox full, message dropped")
	}
}

func (h *Hub) writeLoop() {
	for {
		select {
		case msg := <-h.out:
			h.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := h.conn.WriteJSON(msg); err != nil {
				h.logger.WithError(err).Debug("write failed")
				h.close()
				return
			}
		case <-h.done:
			return
		}
	}
}

// readLoop handles requests until the connection fails.
func (h *Hub) readLoop() {
	defer h.close()
	for {
		_, data, err := h.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Warn("connection closed")
			}
			return
		}
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			h.push(errorMsg(fmt.Errorf("bad request: %w", err)))
			continue
		}
		if err := h.dispatch(req); err != nil {
			h.push(errorMsg(err))
		}
	}
}

var errUnknownType = errors.New("unknown message type")

func (h *Hub) dispatch(req Request) error {
	switch req.Type {
	case TypeLaunch:
		err := h.projectile.Launch()
		h.push(projectileMsg(h.projectile.Snapshot()))
		return err
	case TypeReset:
		err := h.projectile.Reset()
		h.push(projectileMsg(h.projectile.Snapshot()))
		return err
	case TypeHeat:
		amount := thermal.BrushAmount
		if req.Amount != nil {
			amount = *req.Amount
		}
		return h.thermal.Inject(req.X, req.Y, amount)
	case TypeClear:
		return h.thermal.Clear()
	case TypePause:
		h.thermal.SetPaused(req.Paused)
		return nil
	case TypeConfig:
		h.store.Merge(req.Patch)
		h.push(h.configMsg())
		h.push(projectileMsg(h.projectile.Snapshot()))
		return nil
	}
	return fmt.Errorf("%w: %q", errUnknownType, req.Type)
}

func (h *Hub) configMsg() ConfigMsg {
	return ConfigMsg{Type: TypeConfig, SimConfig: h.store.Snapshot()}
}

func (h *Hub) close() {
	h.once.Do(func() {
		h.handle.Cancel()
		h.thermal.Stop()
		h.projectile.Stop()
		close(h.done)
		if h.conn != nil {
			h.conn.Close()
		}
	})
}
