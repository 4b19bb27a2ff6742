package style

import (
	"fmt"
	"strings"
)

// PromptPlaceholder is replaced with the user's positive prompt.
const PromptPlaceholder = "{prompt}"

// Record is one catalog entry.
type Record struct {
	Name           string `json:"name"`
	NameZH         string `json:"namezh,omitempty"`
	NameJP         string `json:"namejp,omitempty"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	Category       string `json:"category,omitempty"`
}

// Categories returns the record's tags in file order.
func (r Record) Categories() []string {
	return splitTags(r.Category)
}

// HasCategory reports whether tag is one of the record's categories.
func (r Record) HasCategory(tag string) bool {
	for _, c := range r.Categories() {
		if c == tag {
			return true
		}
	}
	return false
}

// DisplayName returns the localized name for lang, falling back to Name.
func (r Record) DisplayName(lang Language) string {
	switch lang {
	case LanguageChinese:
		if r.NameZH != "" {
			return r.NameZH
		}
	case LanguageJapanese:
		if r.NameJP != "" {
			return r.NameJP
		}
	}
	return r.Name
}

// Apply substitutes text into the prompt template.
func (r Record) Apply(text string) string {
	return strings.ReplaceAll(r.Prompt, PromptPlaceholder, text)
}

// Validate checks the fields required to persist a new record.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalidRecord)
	}
	return nil
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
