// Package server exposes the gridwire pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness and build version
//	POST /v1/layout          sheet in, routed layout JSON out
//	POST /v1/render?format=  sheet in, one drawing out (svg, png, pdf, json, dot, topology, topology-png)
//	POST /v1/channels        sheet in, capacities and slot orders out
//
// Sheets are posted as JSON by default; send Content-Type application/yaml
// or application/toml (or ?sheet=yaml|toml) for the other encodings.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gridwire/pkg/config"
	"github.com/matzehuels/gridwire/pkg/pipeline"
)

// =============================================================================
// Server
// =============================================================================

// Server serves the HTTP API on top of a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	cfg    *config.Config
	logger *log.Logger
}

// New creates a server. The runner's cache is shared by every request.
func New(runner *pipeline.Runner, cfg *config.Config, logger *log.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, cfg: cfg, logger: logger}
}

// Routes returns the router with all routes configured.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestIDHeader)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/channels", s.handleChannels)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	sc := s.cfg.Server
	srv := &http.Server{
		Addr:         sc.Address(),
		Handler:      s.Routes(),
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := sc.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
