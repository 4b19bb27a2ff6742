package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/vectorstore"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog and history statistics",
	Long:  `Display statistics about the active catalog, recorded runs, style usage and the search index.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.ValidateForHistory(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := newApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	catalog := a.Session.Catalog()

	totalRuns, err := a.Store.CountRuns(ctx)
	if err != nil {
		return fmt.Errorf("count runs: %w", err)
	}

	usage, err := a.Store.CountStyleUsage(ctx, 10)
	if err != nil {
		return fmt.Errorf("count style usage: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Style Selector Statistics ===")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Catalog:")
	fmt.Fprintf(out, "  Source: %s\n", catalog.Source())
	fmt.Fprintf(out, "  Styles: %d\n", catalog.Len())
	fmt.Fprintf(out, "  Categories: %d\n", len(catalog.Categories())-1)
	fmt.Fprintf(out, "  Skipped entries: %d\n", catalog.Skipped())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "History:")
	fmt.Fprintf(out, "  Database: %s\n", cfg.DatabasePath)
	fmt.Fprintf(out, "  Total runs: %d\n", totalRuns)
	fmt.Fprintln(out)

	if len(usage) > 0 {
		t := newTable(out)
		t.AppendHeader(table.Row{"Style", "Runs"})
		for _, u := range usage {
			t.AppendRow(table.Row{u.Style, u.Uses})
		}
		t.Render()
		fmt.Fprintln(out)
	}

	// Check VecLite stats if an index exists
	if cfg.VecLitePath != "" {
		if _, err := os.Stat(cfg.VecLitePath); err == nil {
			index, err := vectorstore.New(vectorstore.Config{
				Path:       cfg.VecLitePath,
				ConfigPath: cfg.VecLiteConfigPath,
			})
			if err != nil {
				slog.Warn("failed to open VecLite", "error", err)
			} else {
				defer index.Close()
				stats := index.Stats()
				fmt.Fprintln(out, "VecLite:")
				fmt.Fprintf(out, "  Path: %s\n", cfg.VecLitePath)
				fmt.Fprintf(out, "  Documents: %d\n", stats.Count)
				fmt.Fprintf(out, "  Dimension: %d\n", stats.Dimension)
				fmt.Fprintf(out, "  Distance: %s\n", stats.DistanceType)
				fmt.Fprintf(out, "  Index: %s\n", stats.IndexType)
				fmt.Fprintln(out)
			}
		}
	}

	return nil
}
