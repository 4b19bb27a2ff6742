package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/vectorstore"
)

var (
	searchLimit    int
	searchCategory string
	searchText     bool
	searchHybrid   bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the style index",
	Long: `Find styles matching a description. Run 'styleselector index' first.

By default the query is embedded and matched semantically. --text uses BM25
full-text search over name, category and prompts; --hybrid fuses both.

Example:
  styleselector search "moody black and white film"
  styleselector search neon --text --category scifi`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "k", 5, "Maximum results")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Only return styles tagged with this category")
	searchCmd.Flags().BoolVar(&searchText, "text", false, "Use full-text search")
	searchCmd.Flags().BoolVar(&searchHybrid, "hybrid", false, "Combine vector and full-text search")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.ValidateForIndex(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if searchLimit < 1 {
		return fmt.Errorf("--limit must be positive")
	}

	index, err := vectorstore.New(vectorstore.Config{
		Path:       cfg.VecLitePath,
		ConfigPath: cfg.VecLiteConfigPath,
	})
	if err != nil {
		return fmt.Errorf("open style index: %w", err)
	}
	defer index.Close()

	if index.Count() == 0 {
		return fmt.Errorf("style index is empty, run 'styleselector index' first")
	}

	var hits []vectorstore.Hit
	switch {
	case searchText:
		hits, err = index.TextSearch(ctx, query, searchLimit)
	case searchHybrid:
		hits, err = index.HybridSearch(ctx, query, searchLimit, 0.7, 0.3)
	default:
		hits, err = index.SearchInCategory(ctx, query, searchCategory, searchLimit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(hits) == 0 {
		fmt.Fprintln(out, "No matching styles found.")
		return nil
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"Score", "Name", "Display", "Category"})
	for _, h := range hits {
		t.AppendRow(table.Row{fmt.Sprintf("%.3f", h.Similarity), h.Name, h.DisplayName(cfg.Language), h.Category})
	}
	t.Render()
	return nil
}
