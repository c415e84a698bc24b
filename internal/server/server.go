package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/xdg/cmdbind/internal/clog"
)

// DefaultAddr is the listen address used when none is given.
const DefaultAddr = "127.0.0.1:5000"

// Server serves a router on a TCP address.
type Server struct {
	// Addr is the address to listen on (e.g., "127.0.0.1:5000").
	Addr string

	// Handler is usually the router returned by NewRouter.
	Handler http.Handler

	server   *http.Server
	listener net.Listener
	done     chan error
	mu       sync.Mutex
	running  bool
}

// New creates a server for handler on addr.
func New(addr string, handler http.Handler) *Server {
	return &Server{Addr: addr, Handler: handler}
}

// Start begins accepting connections in the background.
// Returns an error if the server is already running or cannot listen.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: 30 * time.Second,
		ErrorLog:          clog.StdLogger(clog.LevelWarn),
	}
	s.done = make(chan error, 1)
	s.running = true

	go func(srv *http.Server, done chan<- error) {
		err := srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
		close(done)
	}(s.server, s.done)

	clog.Info("listening on http://%s", listener.Addr())
	return nil
}

// Done returns a channel that yields the serve error, or nil after a clean
// Stop, and is then closed. It is nil before Start.
func (s *Server) Done() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Stop gracefully shuts down the server, waiting for in-flight requests
// until ctx is done. Requests still running then have their contexts
// canceled, which kills their child processes.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if err := s.server.Shutdown(ctx); err != nil {
		_ = s.server.Close()
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// ListenAddr returns the address the server is listening on, which differs
// from Addr when Addr has port 0. Returns "" if the server never started.
func (s *Server) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
