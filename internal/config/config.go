package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/abdulachik/styleselector/internal/style"
)

// Styles UI conventions, mirroring the host setting.
const (
	StylesUISelectList   = "select-list"
	StylesUIRadioButtons = "radio-buttons"
)

// Config holds all application configuration.
type Config struct {
	// Catalog
	StylesPath     string // Catalog file; empty uses the bundled catalog
	StylesDir      string // Directory listed by the catalog switcher
	Language       style.Language
	RandomCategory string

	// Host settings
	EnabledByDefault bool
	StylesUI         string

	// Storage
	DatabasePath      string
	VecLitePath       string
	VecLiteConfigPath string

	// Server
	ListenAddr string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		StylesPath:        getEnv("STYLES_PATH", ""),
		StylesDir:         getEnv("STYLES_DIR", "styles"),
		RandomCategory:    getEnv("STYLE_RANDOM_CATEGORY", style.AllCategories),
		StylesUI:          getEnv("STYLES_UI", StylesUISelectList),
		DatabasePath:      getEnv("DATABASE_PATH", "data/styleselector.db"),
		VecLitePath:       getEnv("VECLITE_PATH", "data/styles.veclite"),
		VecLiteConfigPath: getEnv("VECLITE_CONFIG", ""),
		ListenAddr:        getEnv("LISTEN_ADDR", ":8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	lang, err := style.ParseLanguage(getEnv("STYLE_LANGUAGE", string(style.LanguageDefault)))
	if err != nil {
		return nil, fmt.Errorf("invalid STYLE_LANGUAGE: %w", err)
	}
	cfg.Language = lang

	cfg.EnabledByDefault, err = strconv.ParseBool(getEnv("STYLE_ENABLED_BY_DEFAULT", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid STYLE_ENABLED_BY_DEFAULT: %w", err)
	}

	return cfg, nil
}

// Validate checks settings shared by every command.
func (c *Config) Validate() error {
	switch c.StylesUI {
	case StylesUISelectList, StylesUIRadioButtons:
	default:
		return fmt.Errorf("invalid STYLES_UI: %s (must be '%s' or '%s')", c.StylesUI, StylesUISelectList, StylesUIRadioButtons)
	}
	return nil
}

// ValidateForHistory checks configuration needed for the run history database.
func (c *Config) ValidateForHistory() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForIndex checks configuration needed for the style search index.
func (c *Config) ValidateForIndex() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.VecLitePath == "" {
		return fmt.Errorf("VECLITE_PATH is required")
	}
	return nil
}

// ValidateForServe checks configuration needed for serve mode.
func (c *Config) ValidateForServe() error {
	if err := c.ValidateForHistory(); err != nil {
		return err
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
