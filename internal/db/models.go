package db

import (
	"encoding/json"
	"time"
)

type Run struct {
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

// Styles decodes the JSON encoded StylesUsed column.
func (r Run) Styles() []string {
	var styles []string
	if err := json.Unmarshal([]byte(r.StylesUsed), &styles); err != nil {
		return nil
	}
	return styles
}

type RunPrompt struct {
	RunID    string `json:"run_id"`
	Idx      int64  `json:"idx"`
	Positive string `json:"positive"`
	Negative string `json:"negative"`
}

type StyleUsage struct {
	Style string `json:"style"`
	Uses  int64  `json:"uses"`
}
