package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunRecord describes one batch injection to be stored.
type RunRecord struct {
	ID               string
	Catalog          string
	Mode             string
	Language         string
	Category         string
	AtBeginning      bool
	UseCurrentPrompt bool
	StylesUsed       []string
	Prompts          []string
	NegativePrompts  []string
}

// RecordRun stores a run and its prompts in a single transaction.
// An empty ID is replaced by a new UUID. The stored run is returned.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) (Run, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StylesUsed == nil {
		rec.StylesUsed = []string{}
	}
	styles, err := json.Marshal(rec.StylesUsed)
	if err != nil {
		return Run{}, fmt.Errorf("encode styles: %w", err)
	}

	count := max(len(rec.Prompts), len(rec.NegativePrompts))
	params := CreateRunParams{
		ID:               rec.ID,
		CreatedAt:        time.Now().UTC(),
		Catalog:          rec.Catalog,
		Mode:             rec.Mode,
		Language:         rec.Language,
		Category:         rec.Category,
		AtBeginning:      rec.AtBeginning,
		UseCurrentPrompt: rec.UseCurrentPrompt,
		StylesUsed:       string(styles),
		PromptCount:      int64(count),
	}

	err = s.InTx(ctx, func(q *Queries) error {
		if err := q.CreateRun(ctx, params); err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		for i := 0; i < count; i++ {
			if err := q.CreateRunPrompt(ctx, CreateRunPromptParams{
				RunID:    rec.ID,
				Idx:      int64(i),
				Positive: at(rec.Prompts, i),
				Negative: at(rec.NegativePrompts, i),
			}); err != nil {
				return fmt.Errorf("create run prompt %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return Run{}, err
	}

	return Run{
		ID:               params.ID,
		CreatedAt:        params.CreatedAt,
		Catalog:          params.Catalog,
		Mode:             params.Mode,
		Language:         params.Language,
		Category:         params.Category,
		AtBeginning:      params.AtBeginning,
		UseCurrentPrompt: params.UseCurrentPrompt,
		StylesUsed:       params.StylesUsed,
		PromptCount:      params.PromptCount,
	}, nil
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
