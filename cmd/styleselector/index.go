package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/vectorstore"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the style search index",
	Long: `Embed every style of the active catalog and store it in VecLite for search.

Uses the embedding provider configured in veclite.yaml:
  - openai: OpenAI API (requires OPENAI_API_KEY env var)
  - ollama: Local Ollama server

Use --rebuild after editing the catalog to drop the previous index.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "Discard the existing index first")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.ValidateForIndex(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := newApp(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	catalog := a.Session.Catalog()
	if catalog.Len() == 0 {
		return fmt.Errorf("catalog %s has no styles", catalog.Source())
	}

	index, err := vectorstore.New(vectorstore.Config{
		Path:       cfg.VecLitePath,
		ConfigPath: cfg.VecLiteConfigPath,
		Rebuild:    indexRebuild,
	})
	if err != nil {
		return fmt.Errorf("open style index: %w", err)
	}
	defer index.Close()

	if existing := index.Count(); existing > 0 && !indexRebuild {
		return fmt.Errorf("index already holds %d styles, use --rebuild to replace it", existing)
	}

	slog.Info("indexing catalog", "source", catalog.Source(), "styles", catalog.Len())
	start := time.Now()

	bar := progressbar.Default(int64(catalog.Len()), "Embedding styles")
	n, err := index.IndexCatalog(ctx, catalog, func(done, total int) {
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	if err != nil {
		return fmt.Errorf("index catalog: %w", err)
	}

	slog.Info("index complete", "styles", n, "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
