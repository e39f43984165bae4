// Package server exposes layouts and editing sessions over HTTP.
//
// All endpoints speak JSON except the SVG previews. Errors carry the
// structured code from pkg/errors:
//
//	{"error": {"code": "INVALID_OPERATION", "message": "edge \"v1\" cannot be deleted"}}
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/zonesmith/pkg/pipeline"
	"github.com/matzehuels/zonesmith/pkg/session"
	"github.com/matzehuels/zonesmith/pkg/store"
)

const (
	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
	cleanupInterval = time.Minute
)

// Server serves the HTTP API.
type Server struct {
	store    store.Store
	sessions *session.Manager
	runner   *pipeline.Runner
	render   pipeline.Options
	logger   *log.Logger
}

// Options wires the server's collaborators. Store is required; the rest
// default to an empty session manager, an uncached runner, default render
// options and log.Default().
type Options struct {
	Store    store.Store
	Sessions *session.Manager
	Runner   *pipeline.Runner
	Render   pipeline.Options
	Logger   *log.Logger
}

// New builds a server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewManager(logger)
	}
	runner := opts.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		store:    opts.Store,
		sessions: sessions,
		runner:   runner,
		render:   opts.Render,
		logger:   logger,
	}
}

// Sessions returns the server's session manager.
func (s *Server) Sessions() *session.Manager { return s.sessions }

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/templates", s.handleTemplates)

	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", s.handleListLayouts)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetLayout)
			r.Put("/", s.handlePutLayout)
			r.Delete("/", s.handleDeleteLayout)
			r.Get("/preview.svg", s.handleLayoutPreview)
		})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withSession(s.handleGetSession))
			r.Delete("/", s.handleCloseSession)
			r.Get("/preview.svg", s.withSession(s.handleSessionPreview))
			r.Post("/split", s.withSession(s.handleSplit))
			r.Post("/save", s.withSession(s.handleSave))
			r.Route("/edges/{edge}", func(r chi.Router) {
				r.Post("/move", s.withSession(s.handleMoveEdge))
				r.Get("/constraints", s.withSession(s.handleConstraints))
				r.Get("/deletable", s.withSession(s.handleDeletable))
				r.Delete("/", s.withSession(s.handleDeleteEdge))
			})
		})
	})
	return r
}

// Config holds listener settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Run serves until ctx is cancelled, then shuts down gracefully. Idle
// sessions are closed in the background while it runs.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	go s.cleanupLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) cleanupLoop(ctx context.Context) {
	t := time.NewTicker(cleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sessions.Cleanup(now)
		}
	}
}

// logRequests logs one line per request through charmbracelet/log.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logf := s.logger.Debug
		if status >= http.StatusInternalServerError {
			logf = s.logger.Warn
		}
		logf("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
