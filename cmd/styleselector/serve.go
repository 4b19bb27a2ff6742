package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/server"
)

var serveNoHistory bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API that lists, resolves and injects styles for a host
application. Injection runs are recorded in the history database.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "Do not record injection runs")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.ValidateForServe(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := newApp(ctx, cfg, !serveNoHistory)
	if err != nil {
		return err
	}
	defer a.Close()

	srvCfg := server.Config{
		Addr:             cfg.ListenAddr,
		Session:          a.Session,
		Injector:         a.Injector,
		StylesDir:        cfg.StylesDir,
		EnabledByDefault: cfg.EnabledByDefault,
	}
	if a.Store != nil {
		srvCfg.History = a.Store
	}
	srv := server.New(srvCfg)

	slog.Info("starting style selector API",
		"addr", cfg.ListenAddr,
		"catalog", catalogLabel(a.Session.Path()),
		"language", a.Session.Language(),
		"history", a.Store != nil,
	)

	// Run server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	slog.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
