// Package server exposes a carousel to remote render clients over a
// websocket. Clients receive the item list once and then a frame for
// every transition; they send navigation and hover commands back.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server serves the websocket endpoint and a health check
type Server struct {
	addr   string
	path   string
	loop   *Loop
	logger *zap.Logger
	base   context.Context
}

// New creates a server for loop. path is the websocket endpoint.
func New(addr, path string, loop *Loop, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		path = "/ws"
	}
	return &Server{
		addr:   addr,
		path:   path,
		loop:   loop,
		logger: logger.Named("server"),
		base:   context.Background(),
	}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.loop.Hub().Len(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	client := NewClient(s.loop.Hub(), conn, r.RemoteAddr)

	// The pumps outlive the request; their lifetime is the hub's.
	go client.writePump()
	go client.readPump(s.base, s.loop.Commands())

	if !s.loop.Join(r.Context(), client) {
		client.shut()
	}
}

// ListenAndServe listens on the configured address and calls Serve
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the loop, the hub and the HTTP server on ln until ctx is done
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	s.base = ctx

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error { return s.loop.Run(ctx) })
	g.Go(func() error {
		s.loop.Hub().Run(ctx)
		return nil
	})
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()), zap.String("path", s.path))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
