// Package server exposes the docgraph pipeline as a JSON HTTP API.
//
// Routes:
//
//	GET    /healthz                  liveness probe
//	GET    /api/graph                the document graph (?max_nodes, ?offset, ?external)
//	GET    /api/layout/{engine}      a positioned graph (?center, ?max_depth, ?rank_dir,
//	                                 ?external, ?format=json|svg|dot)
//	GET    /api/positions/{key}      remembered force-layout positions
//	PUT    /api/positions/{key}      replace them
//	DELETE /api/positions/{key}      forget them
//
// Position keys are usually absolute paths, so clients escape slashes
// (%2F). The key "current" names the served root.
//
// The server serves one document root. The unpaginated graph is built once
// and reused until [Server.Invalidate] is called, typically by a watcher.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server handles API requests for one document root.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router

	mu    sync.Mutex
	graph *graph.Graph
}

// New creates a server. defaults must name the root path and supplies the
// engine options used when a request leaves them out.
func New(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, defaults: defaults, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/layout/{engine}", s.handleLayout)
		r.Get("/positions/{key}", s.handleGetPositions)
		r.Put("/positions/{key}", s.handlePutPositions)
		r.Delete("/positions/{key}", s.handleDeletePositions)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Invalidate drops the cached graph so the next request rebuilds it.
func (s *Server) Invalidate() {
	s.mu.Lock()
	s.graph = nil
	s.mu.Unlock()
}

// current returns the cached unpaginated graph, building it if needed.
func (s *Server) current(ctx context.Context) (*graph.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph != nil {
		return s.graph, nil
	}
	opts := s.defaults
	opts.MaxNodes, opts.Offset = 0, 0
	g, err := s.runner.Build(ctx, opts)
	if err != nil {
		return nil, err
	}
	s.graph = g
	return g, nil
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "root", s.defaults.RootPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
