package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pqcgraph/pkg/assess"
	"github.com/matzehuels/pqcgraph/pkg/dataset"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/overlay"
	"github.com/matzehuels/pqcgraph/pkg/pipeline"
)

// Server serves one dataset snapshot.
type Server struct {
	runner    *pipeline.Runner
	logger    *log.Logger
	graph     *graph.Graph
	layout    graph.Layout
	dataset   *dataset.Dataset
	options   assess.Options
	baselines map[overlay.Mode]*overlay.Result
	started   time.Time
}

// New builds a server over a pipeline result. Baselines for every mode and
// the stack options are computed here, once.
func New(ctx context.Context, runner *pipeline.Runner, res *pipeline.Result, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		runner:    runner,
		logger:    logger,
		graph:     res.Graph,
		layout:    res.Layout,
		dataset:   res.Dataset,
		options:   assess.CandidateOptions(res.Graph),
		baselines: make(map[overlay.Mode]*overlay.Result, len(overlay.Modes)),
		started:   time.Now(),
	}
	for _, m := range overlay.Modes {
		s.baselines[m] = runner.Baseline(ctx, res.Graph, m)
	}
	return s
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/entities", s.handleEntities)
		r.Get("/entities/{id}", s.handleEntity)
		r.Get("/search", s.handleSearch)
		r.Get("/baseline", s.handleBaseline)
		r.Post("/explore", s.handleExplore)
		r.Get("/stack/options", s.handleStackOptions)
		r.Post("/assess", s.handleAssess)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "entities", s.graph.EntityCount())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
