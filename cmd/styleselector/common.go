package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/abdulachik/styleselector/internal/app"
	"github.com/abdulachik/styleselector/internal/config"
	"github.com/abdulachik/styleselector/internal/style"
)

// loadConfig loads and validates configuration, applying the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if stylesPath != "" {
		cfg.StylesPath = stylesPath
	}
	if language != "" {
		lang, err := style.ParseLanguage(language)
		if err != nil {
			return nil, fmt.Errorf("invalid --lang: %w", err)
		}
		cfg.Language = lang
	}
	return cfg, nil
}

// newApp builds the application container for a command.
func newApp(ctx context.Context, cfg *config.Config, withHistory bool) (*app.App, error) {
	return app.New(ctx, cfg, app.Options{WithHistory: withHistory})
}

// newTable returns a table writer rendering to w.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// catalogLabel names the catalog file a path refers to.
func catalogLabel(path string) string {
	if path == "" {
		return style.EmbeddedSource
	}
	return path
}
