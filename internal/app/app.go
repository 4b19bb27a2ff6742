package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdulachik/styleselector/internal/config"
	"github.com/abdulachik/styleselector/internal/db"
	"github.com/abdulachik/styleselector/internal/inject"
	"github.com/abdulachik/styleselector/internal/style"
)

// App is the main application container holding all dependencies.
type App struct {
	Config   *config.Config
	Session  *style.Session
	Injector *inject.Injector

	// Store is nil unless Options.WithHistory was set.
	Store *db.Store
}

// Options selects the optional parts of the container.
type Options struct {
	// StylesPath overrides cfg.StylesPath when non-empty.
	StylesPath string

	// Language overrides cfg.Language when non-empty.
	Language style.Language

	// WithHistory opens and migrates the run history database.
	WithHistory bool

	Logger *slog.Logger
}

// New creates a new application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	path := cfg.StylesPath
	if opts.StylesPath != "" {
		path = opts.StylesPath
	}
	lang := cfg.Language
	if opts.Language != "" {
		lang = opts.Language
	}

	session := style.NewSession(style.SessionConfig{
		Path:     path,
		Language: lang,
		Category: cfg.RandomCategory,
		Logger:   logger,
	})

	a := &App{
		Config:   cfg,
		Session:  session,
		Injector: inject.New(inject.Config{Resolver: session, Logger: logger}),
	}

	if opts.WithHistory {
		store, err := db.NewStore(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}

		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		a.Store = store
	}

	return a, nil
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
