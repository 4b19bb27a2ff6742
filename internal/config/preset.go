package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/abdulachik/styleselector/internal/inject"
	"github.com/abdulachik/styleselector/internal/style"
)

// Preset is a saved set of injection options, stored as TOML.
//
//	styles = ["sai-anime", "Random Select"]
//	mode = "fixed"
//	at_beginning = true
//	category = "illustration"
type Preset struct {
	Styles           []string `toml:"styles"`
	Mode             string   `toml:"mode"`
	AtBeginning      bool     `toml:"at_beginning"`
	UseCurrentPrompt bool     `toml:"use_current_prompt"`
	CurrentPrompt    string   `toml:"current_prompt"`
	CurrentNegative  string   `toml:"current_negative"`
	RandomCount      int      `toml:"random_count"`
	Category         string   `toml:"category"`
	Language         string   `toml:"language"`
}

// maxSlots is the number of style selectors the UI offers.
const maxSlots = 4

// LoadPreset reads a TOML preset file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- preset path is user-provided
	if err != nil {
		return nil, fmt.Errorf("failed to read preset: %w", err)
	}
	return ParsePreset(data)
}

// ParsePreset decodes, defaults and validates a preset.
func ParsePreset(data []byte) (*Preset, error) {
	var p Preset
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse preset: %w", err)
	}
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preset: %w", err)
	}
	return &p, nil
}

func (p *Preset) applyDefaults() {
	if p.Mode == "" {
		p.Mode = string(inject.ModeFixed)
	}
	if p.RandomCount == 0 {
		p.RandomCount = inject.DefaultRandomCount
	}
	if p.Category == "" {
		p.Category = style.AllCategories
	}
	if p.Language == "" {
		p.Language = string(style.LanguageDefault)
	}
}

// Validate checks the preset values.
func (p *Preset) Validate() error {
	if len(p.Styles) > maxSlots {
		return fmt.Errorf("at most %d styles are allowed, got %d", maxSlots, len(p.Styles))
	}
	if _, err := inject.ParseMode(p.Mode); err != nil {
		return err
	}
	if p.RandomCount < 1 || p.RandomCount > style.MaxSample {
		return fmt.Errorf("random_count must be between 1 and %d", style.MaxSample)
	}
	if _, err := style.ParseLanguage(p.Language); err != nil {
		return err
	}
	return nil
}

// Options converts the preset into injector options.
func (p *Preset) Options() inject.Options {
	mode, _ := inject.ParseMode(p.Mode)
	lang, _ := style.ParseLanguage(p.Language)
	return inject.Options{
		Enabled:          true,
		Styles:           style.ParseKeys(p.Styles),
		Mode:             mode,
		AtBeginning:      p.AtBeginning,
		UseCurrentPrompt: p.UseCurrentPrompt,
		CurrentPrompt:    p.CurrentPrompt,
		CurrentNegative:  p.CurrentNegative,
		RandomCount:      p.RandomCount,
		Category:         p.Category,
		Language:         lang,
	}
}
