// Package server exposes the style resolver over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abdulachik/styleselector/internal/db"
	"github.com/abdulachik/styleselector/internal/inject"
	"github.com/abdulachik/styleselector/internal/style"
)

// History records and lists injection runs. *db.Store satisfies it.
type History interface {
	RecordRun(ctx context.Context, rec db.RunRecord) (db.Run, error)
	ListRuns(ctx context.Context, limit int64) ([]db.Run, error)
}

// Config holds server configuration.
type Config struct {
	Addr     string
	Session  *style.Session
	Injector *inject.Injector

	// History is optional; runs are not recorded when nil.
	History History

	// StylesDir is listed by GET /catalogs and resolves PUT /catalog names.
	StylesDir string

	// EnabledByDefault applies when an inject request omits "enabled".
	EnabledByDefault bool

	Health *Health
	Logger *slog.Logger
}

// Server represents the HTTP server.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	addr     string
	session  *style.Session
	injector *inject.Injector
	history  History
	dir      string
	enabled  bool
	health   *Health
	logger   *slog.Logger
}

// New creates a new HTTP server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	health := cfg.Health
	if health == nil {
		health = NewHealth()
	}
	injector := cfg.Injector
	if injector == nil {
		injector = inject.New(inject.Config{Resolver: cfg.Session, Logger: logger})
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "the requested resource was not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "the requested method is not allowed for this resource")
	})

	s := &Server{
		router:   r,
		addr:     cfg.Addr,
		session:  cfg.Session,
		injector: injector,
		history:  cfg.History,
		dir:      cfg.StylesDir,
		enabled:  cfg.EnabledByDefault,
		health:   health,
		logger:   logger,
	}
	s.registerRoutes()
	s.checkCatalog()

	return s
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the underlying router for testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// checkCatalog records the active catalog's load state in the health tracker.
func (s *Server) checkCatalog() {
	path := s.session.Path()
	if path == "" {
		s.health.SetHealthy(ComponentCatalog, style.EmbeddedSource)
		return
	}
	if _, err := style.LoadFile(path); err != nil {
		s.health.SetUnhealthy(ComponentCatalog, err)
		return
	}
	s.health.SetHealthy(ComponentCatalog, path)
}
