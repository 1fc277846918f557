// Package server streams simulation snapshots to websocket clients and takes
// their commands.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/scheduler"
)

type Server struct {
	cfg      *config.Config
	sched    scheduler.Scheduler
	upgrader websocket.Upgrader

	mu   sync.Mutex
	hubs map[*Hub]struct{}
}

func NewServer(cfg *config.Config, sched scheduler.Scheduler) *Server {
	return &Server{
		cfg:   cfg,
		sched: sched,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		hubs: make(map[*Hub]struct{}),
	}
}

// Handler routes /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	return mux
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hubs)
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	logger := log.WithField("remote", r.RemoteAddr)
	hub := newHub(s.cfg.Sim, s.sched, s.cfg.Scheduler.ProjectileDt, s.cfg.Server.SnapshotEvery, logger)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Warn("upgrade failed")
		hub.close()
		return
	}
	hub.conn = conn

	s.mu.Lock()
	s.hubs[hub] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.hubs, hub)
		s.mu.Unlock()
	}()

	logger.Info("client connected")
	hub.push(hub.configMsg())
	hub.push(projectileMsg(hub.projectile.Snapshot()))
	go hub.writeLoop()
	hub.readLoop()
	logger.Info("client disconnected")
}

// ListenAndServe serves until ctx is cancelled, then closes every client.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.WithField("addr", s.cfg.Server.Addr).Info("listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)

	// Hijacked connections are not closed by Shutdown.
	s.mu.Lock()
	for hub := range s.hubs {
		hub.close()
	}
	s.mu.Unlock()

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
