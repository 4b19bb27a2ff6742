// Package vectorstore provides a VecLite-based search index for styles.
package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/veclite"

	"github.com/abdulachik/styleselector/internal/style"
)

const (
	// Collection name for styles
	stylesCollection = "styles"

	// categoryOverfetch widens the candidate pool before category filtering.
	categoryOverfetch = 4
)

// Config holds configuration for the StyleIndex.
type Config struct {
	// Path to the VecLite database file (e.g., "data/styles.veclite").
	Path string

	// ConfigPath is the path to veclite.yaml config file (optional).
	// If empty, searches ./veclite.yaml, ~/.veclite/config.yaml.
	ConfigPath string

	// Rebuild discards any existing index at Path before opening.
	Rebuild bool
}

// StyleIndex wraps VecLite for semantic and full-text style search.
type StyleIndex struct {
	vecdb    *veclite.DB
	coll     *veclite.Collection
	embedder veclite.Embedder
}

// Hit is a style found in the index.
type Hit struct {
	VecLiteID  uint64
	Name       string
	NameZH     string
	NameJP     string
	Category   string
	Similarity float32
}

// DisplayName returns the hit's name for lang, falling back to the canonical name.
func (h Hit) DisplayName(lang style.Language) string {
	return style.Record{Name: h.Name, NameZH: h.NameZH, NameJP: h.NameJP}.DisplayName(lang)
}

// New opens a StyleIndex using veclite.yaml configuration.
func New(cfg Config) (*StyleIndex, error) {
	slog.Debug("creating StyleIndex", "path", cfg.Path, "config_path", cfg.ConfigPath)

	// Load veclite config (searches ./veclite.yaml, ~/.veclite/config.yaml)
	vecliteCfg, err := veclite.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load veclite config: %w", err)
	}

	slog.Info("loaded veclite config",
		"provider", vecliteCfg.Embedder.Provider,
	)

	embedder, err := veclite.NewEmbedderFromConfig(vecliteCfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	dimension := embedder.Dimension()
	slog.Debug("embedder created", "dimension", dimension)

	if cfg.Rebuild {
		if err := os.RemoveAll(cfg.Path); err != nil {
			return nil, fmt.Errorf("remove existing index: %w", err)
		}
	}

	vecdb, err := veclite.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open veclite db: %w", err)
	}

	// Get or create collection with HNSW index and text search
	coll, err := vecdb.CreateCollection(stylesCollection,
		veclite.WithDimension(dimension),
		veclite.WithDistanceType(veclite.DistanceCosine),
		veclite.WithHNSW(16, 200), // M=16, efConstruction=200
		veclite.WithTextIndex("name", "category", "prompt", "negative_prompt"),
		veclite.WithEmbedder(embedder),
	)
	if err != nil {
		// Collection might already exist, try to get it
		coll, err = vecdb.GetCollection(stylesCollection)
		if err != nil {
			vecdb.Close()
			return nil, fmt.Errorf("get collection: %w", err)
		}
	}

	return &StyleIndex{
		vecdb:    vecdb,
		coll:     coll,
		embedder: embedder,
	}, nil
}

// Close closes the VecLite database.
func (s *StyleIndex) Close() error {
	if s.vecdb != nil {
		return s.vecdb.Close()
	}
	return nil
}

// IndexCatalog embeds every record of catalog and persists the index.
// onProgress, if set, is called after each record with the running count.
func (s *StyleIndex) IndexCatalog(ctx context.Context, catalog *style.Catalog, onProgress func(done, total int)) (int, error) {
	total := catalog.Len()
	for i, rec := range catalog.Records() {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := s.coll.InsertText(documentText(rec), payloadFor(rec)); err != nil {
			return i, fmt.Errorf("index style %q: %w", rec.Name, err)
		}
		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	if err := s.vecdb.Sync(); err != nil {
		return total, fmt.Errorf("sync index: %w", err)
	}

	slog.Info("indexed catalog", "source", catalog.Source(), "styles", total)
	return total, nil
}

// Search finds styles semantically similar to query.
func (s *StyleIndex) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	results, err := s.coll.SearchText(query, veclite.TopK(k))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return convertResults(results), nil
}

// TextSearch performs BM25 full-text search on indexed fields.
func (s *StyleIndex) TextSearch(ctx context.Context, query string, k int) ([]Hit, error) {
	results, err := s.coll.TextSearch(query, veclite.TopK(k))
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	return convertResults(results), nil
}

// HybridSearch combines vector and BM25 text search using RRF fusion.
func (s *StyleIndex) HybridSearch(ctx context.Context, query string, k int, vectorWeight, textWeight float64) ([]Hit, error) {
	queryVec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.coll.HybridSearch(queryVec, query,
		veclite.TopK(k),
		veclite.WithVectorWeight(vectorWeight),
		veclite.WithTextWeight(textWeight),
	)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	return convertResults(results), nil
}

// SearchInCategory returns at most k hits whose category tags contain category.
// Categories are comma separated lists, so the filter runs on the results.
func (s *StyleIndex) SearchInCategory(ctx context.Context, query, category string, k int) ([]Hit, error) {
	if category == "" || category == style.AllCategories {
		return s.Search(ctx, query, k)
	}

	results, err := s.coll.SearchText(query, veclite.TopK(k*categoryOverfetch))
	if err != nil {
		return nil, fmt.Errorf("search in category: %w", err)
	}

	return filterCategory(convertResults(results), category, k), nil
}

// Count returns the number of styles in the index.
func (s *StyleIndex) Count() int {
	return s.coll.Count()
}

// Stats returns statistics about the index.
func (s *StyleIndex) Stats() veclite.CollectionStats {
	return s.coll.Stats()
}

// documentText is the text embedded for a style.
func documentText(rec style.Record) string {
	parts := []string{rec.Name}
	if rec.Category != "" {
		parts = append(parts, rec.Category)
	}
	parts = append(parts, strings.ReplaceAll(rec.Prompt, style.PromptPlaceholder, ""))
	return strings.Join(parts, ". ")
}

func payloadFor(rec style.Record) map[string]any {
	return map[string]any{
		"name":            rec.Name,
		"namezh":          rec.NameZH,
		"namejp":          rec.NameJP,
		"category":        rec.Category,
		"prompt":          rec.Prompt,
		"negative_prompt": rec.NegativePrompt,
	}
}

// convertResults converts VecLite results to Hits.
func convertResults(results []veclite.Result) []Hit {
	out := make([]Hit, 0, len(results))
	for _, r := range results {
		hit := Hit{
			VecLiteID:  r.Record.ID,
			Similarity: r.Score,
		}
		if r.Record.Payload != nil {
			hit.Name, _ = r.Record.Payload["name"].(string)
			hit.NameZH, _ = r.Record.Payload["namezh"].(string)
			hit.NameJP, _ = r.Record.Payload["namejp"].(string)
			hit.Category, _ = r.Record.Payload["category"].(string)
		}
		out = append(out, hit)
	}
	return out
}

func filterCategory(hits []Hit, category string, k int) []Hit {
	out := make([]Hit, 0, k)
	for _, h := range hits {
		if len(out) == k {
			break
		}
		if (style.Record{Category: h.Category}).HasCategory(category) {
			out = append(out, h)
		}
	}
	return out
}
