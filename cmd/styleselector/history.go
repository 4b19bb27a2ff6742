package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyRun   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded injection runs",
	Long: `Show recent injection runs, or the prompts of one run with --run.

Example:
  styleselector history --limit 10
  styleselector history --run 3f1c...`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of runs to show")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "Show the prompts of this run")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()

	if historyRun != "" {
		run, err := a.Store.GetRun(ctx, historyRun)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("run %s not found", historyRun)
		}
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}

		prompts, err := a.Store.ListRunPrompts(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("list run prompts: %w", err)
		}

		fmt.Fprintf(out, "Run %s (%s, %s, catalog %s)\n", run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"), run.Mode, run.Catalog)
		fmt.Fprintf(out, "Styles: %s\n", strings.Join(run.Styles(), ", "))

		t := newTable(out)
		t.AppendHeader(table.Row{"#", "Positive", "Negative"})
		for _, p := range prompts {
			t.AppendRow(table.Row{p.Idx, p.Positive, p.Negative})
		}
		t.Render()
		return nil
	}

	if historyLimit < 1 {
		return fmt.Errorf("--limit must be positive")
	}

	runs, err := a.Store.ListRuns(ctx, int64(historyLimit))
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Time", "Mode", "Prompts", "Styles"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Mode,
			run.PromptCount,
			strings.Join(run.Styles(), ", "),
		})
	}
	t.Render()
	return nil
}
