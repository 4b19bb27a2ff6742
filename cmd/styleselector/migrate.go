package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/db"
)

var migrateStatus bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the run history database",
	Long: `Apply pending migrations to the run history database at DATABASE_PATH.

With --status nothing is applied; every bundled migration is listed with the
time it was applied.

Example:
  styleselector migrate
  styleselector migrate --status`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "List migrations without applying them")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateForHistory(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	if !migrateStatus {
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("history database ready", "path", cfg.DatabasePath)
	}

	status, err := store.Migrations(ctx)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	renderMigrations(cmd.OutOrStdout(), status)
	return nil
}

func renderMigrations(w io.Writer, status []db.Migration) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Version", "Applied"})
	for _, m := range status {
		applied := "pending"
		if m.Applied {
			applied = m.AppliedAt
		}
		t.AppendRow(table.Row{m.Version, applied})
	}
	t.Render()
}
