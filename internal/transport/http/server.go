package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/atomic"
)

// ServerConfig holds the listener settings.
type ServerConfig struct {
	ListenAddr    string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	DrainDuration time.Duration
	Log           *slog.Logger
}

// Server runs the HTTP listener and reports readiness until shutdown starts.
type Server struct {
	cfg     ServerConfig
	log     *slog.Logger
	isReady atomic.Bool
	srv     *http.Server
}

// NewServer builds the server; build routes with srv.Ready as RouterConfig.Ready.
func NewServer(cfg ServerConfig) *Server {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	s := &Server{cfg: cfg, log: log}
	s.isReady.Store(true)
	return s
}

// Ready reports whether the server still accepts traffic.
func (s *Server) Ready() bool {
	return s.isReady.Load()
}

// Start serves handler in the background. Listener errors are sent on the returned channel.
func (s *Server) Start(handler http.Handler) <-chan error {
	s.srv = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting quiz platform", "addr", s.cfg.ListenAddr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	return errc
}

// Shutdown marks the server not ready, waits for the drain period, then stops accepting requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.isReady.Store(false)
	if s.cfg.DrainDuration > 0 {
		s.log.Info("draining", "duration", s.cfg.DrainDuration)
		select {
		case <-time.After(s.cfg.DrainDuration):
		case <-ctx.Done():
		}
	}
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
