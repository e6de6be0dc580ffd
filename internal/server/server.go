package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeusync/unpossible/internal/core/observability/log"
)

// Config holds stream server configuration.
type Config struct {
	Addr            string
	SendBuffer      int
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:8080",
		SendBuffer:      16,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server streams world snapshots to websocket clients on /ws. Clients pick a
// world with ?world=name; without it they receive every world.
type Server struct {
	cfg      Config
	logger   log.Log
	upgrader websocket.Upgrader

	mu    sync.Mutex
	rooms map[string]*room

	pumps   sync.WaitGroup
	running atomic.Bool
	closed  atomic.Bool
}

func New(cfg Config, logger log.Log) (*Server, error) {
	if cfg.SendBuffer <= 0 {
		return nil, fmt.Errorf("%w: send buffer must be positive", ErrInvalidConfig)
	}
	if cfg.WriteTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Server{
		cfg:    cfg,
		logger: logger.With(log.String("component", "stream")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		rooms: make(map[string]*room),
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *Server) room(name string) *room {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[name]
	if !ok {
		r = newRoom()
		s.rooms[name] = r
	}
	return r
}

// Publish sends f to the clients of its world and to the clients watching
// every world.
func (s *Server) Publish(f Frame) error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	msg, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	dropped := s.room(f.World).broadcast(msg)
	if f.World != "" {
		dropped += s.room("").broadcast(msg)
	}
	if dropped > 0 {
		s.logger.Warn("dropped slow clients", log.String("world", f.World), log.Int("clients", dropped))
	}
	return nil
}

// Clients counts the connected clients across all rooms.
func (s *Server) Clients() int {
	s.mu.Lock()
	rooms := make([]*room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	n := 0
	for _, r := range rooms {
		n += r.size()
	}
	return n
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.closed.Load() {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade failed", log.String("remote", r.RemoteAddr), log.Err(err))
		return
	}

	name := r.URL.Query().Get("world")
	c := newClient(conn, s.cfg.SendBuffer)
	rm := s.room(name)
	rm.join(c)

	// Close sets closed before taking mu, so once closed is seen here no
	// pump is added after Close starts waiting.
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		rm.leave(c)
		_ = conn.Close()
		return
	}
	s.pumps.Add(2)
	s.mu.Unlock()
	s.logger.Info("client connected", log.String("remote", r.RemoteAddr), log.String("world", name))

	go func() {
		defer s.pumps.Done()
		c.writePump(s.cfg.WriteTimeout, s.logger)
	}()
	go func() {
		defer s.pumps.Done()
		c.readPump()
		rm.leave(c)
		s.logger.Info("client disconnected", log.String("remote", r.RemoteAddr))
	}()
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	rm := s.room(r.URL.Query().Get("world"))
	rm.mu.Lock()
	latest := rm.latest
	rm.mu.Unlock()
	if latest == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(latest)
}

// ListenAndServe listens on the configured address and serves until ctx is
// done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully and disconnects every stream client. A server serves once.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.closed.Load() {
		_ = ln.Close()
		return ErrServerClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		_ = ln.Close()
		return ErrServerAlreadyRunning
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("stream listening", log.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if serveErr := <-errCh; !errors.Is(serveErr, http.ErrServerClosed) {
		err = errors.Join(err, serveErr)
	}
	s.logger.Info("stream stopped")
	return err
}

// Close disconnects all clients and waits for their goroutines. It is safe to
// call more than once.
func (s *Server) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	for _, r := range s.rooms {
		r.closeAll()
	}
	s.mu.Unlock()
	s.pumps.Wait()
}
