package db

import (
	"context"
	"time"
)

const createRun = `-- name: CreateRun :exec
INSERT INTO runs (
    id, created_at, catalog, mode, language, category,
    at_beginning, use_current_prompt, styles_used, prompt_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateRunParams struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Catalog          string    `json:"catalog"`
	Mode             string    `json:"mode"`
	Language         string    `json:"language"`
	Category         string    `json:"category"`
	AtBeginning      bool      `json:"at_beginning"`
	UseCurrentPrompt bool      `json:"use_current_prompt"`
	StylesUsed       string    `json:"styles_used"`
	PromptCount      int64     `json:"prompt_count"`
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, createRun,
		arg.ID,
		arg.CreatedAt,
		arg.Catalog,
		arg.Mode,
		arg.Language,
		arg.Category,
		arg.AtBeginning,
		arg.UseCurrentPrompt,
		arg.StylesUsed,
		arg.PromptCount,
	)
	return err
}

const createRunPrompt = `-- name: CreateRunPrompt :exec
INSERT INTO run_prompts (run_id, idx, positive, negative) VALUES (?, ?, ?, ?)
`

type CreateRunPromptParams struct {
	RunID    string `json:"run_id"`
	Idx      int64  `json:"idx"`
	Positive string `json:"positive"`
	Negative string `json:"negative"`
}

func (q *Queries) CreateRunPrompt(ctx context.Context, arg CreateRunPromptParams) error {
	_, err := q.db.ExecContext(ctx, createRunPrompt,
		arg.RunID,
		arg.Idx,
		arg.Positive,
		arg.Negative,
	)
	return err
}

const getRun = `-- name: GetRun :one
SELECT id, created_at, catalog, mode, language, category, at_beginning, use_current_prompt, styles_used, prompt_count
FROM runs WHERE id = ?
`

func (q *Queries) GetRun(ctx context.Context, id string) (Run, error) {
	row := q.db.QueryRowContext(ctx, getRun, id)
	var i Run
	err := row.Scan(
		&i.ID,
		&i.CreatedAt,
		&i.Catalog,
		&i.Mode,
		&i.Language,
		&i.Category,
		&i.AtBeginning,
		&i.UseCurrentPrompt,
		&i.StylesUsed,
		&i.PromptCount,
	)
	return i, err
}

const listRuns = `-- name: ListRuns :many
SELECT id, created_at, catalog, mode, language, category, at_beginning, use_current_prompt, styles_used, prompt_count
FROM runs
ORDER BY created_at DESC, id DESC
LIMIT ?
`

func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Run
	for rows.Next() {
		var i Run
		if err := rows.Scan(
			&i.ID,
			&i.CreatedAt,
			&i.Catalog,
			&i.Mode,
			&i.Language,
			&i.Category,
			&i.AtBeginning,
			&i.UseCurrentPrompt,
			&i.StylesUsed,
			&i.PromptCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRunPrompts = `-- name: ListRunPrompts :many
SELECT run_id, idx, positive, negative FROM run_prompts
WHERE run_id = ?
ORDER BY idx
`

func (q *Queries) ListRunPrompts(ctx context.Context, runID string) ([]RunPrompt, error) {
	rows, err := q.db.QueryContext(ctx, listRunPrompts, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RunPrompt
	for rows.Next() {
		var i RunPrompt
		if err := rows.Scan(
			&i.RunID,
			&i.Idx,
			&i.Positive,
			&i.Negative,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countRuns = `-- name: CountRuns :one
SELECT COUNT(*) FROM runs
`

func (q *Queries) CountRuns(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRuns)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countStyleUsage = `-- name: CountStyleUsage :many
SELECT CAST(j.value AS TEXT) AS style, COUNT(*) AS uses
FROM runs, json_each(runs.styles_used) AS j
GROUP BY j.value
ORDER BY uses DESC, style ASC
LIMIT ?
`

func (q *Queries) CountStyleUsage(ctx context.Context, limit int64) ([]StyleUsage, error) {
	rows, err := q.db.QueryContext(ctx, countStyleUsage, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []StyleUsage
	for rows.Next() {
		var i StyleUsage
		if err := rows.Scan(&i.Style, &i.Uses); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
