package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/styleselector/internal/style"
)

func TestLoad(t *testing.T) {
	// Save original env and restore after test
	origEnv := os.Environ()
	t.Cleanup(func() {
		os.Clearenv()
		for _, e := range origEnv {
			for i := 0; i < len(e); i++ {
				if e[i] == '=' {
					os.Setenv(e[:i], e[i+1:])
					break
				}
			}
		}
	})

	t.Run("defaults", func(t *testing.T) {
		os.Clearenv()
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "", cfg.StylesPath)
		assert.Equal(t, "styles", cfg.StylesDir)
		assert.Equal(t, style.LanguageDefault, cfg.Language)
		assert.Equal(t, style.AllCategories, cfg.RandomCategory)
		assert.True(t, cfg.EnabledByDefault)
		assert.Equal(t, StylesUISelectList, cfg.StylesUI)
		assert.Equal(t, "data/styleselector.db", cfg.DatabasePath)
		assert.Equal(t, "data/styles.veclite", cfg.VecLitePath)
		assert.Equal(t, ":8080", cfg.ListenAddr)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("custom values", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("STYLES_PATH", "/custom/styles.json")
		os.Setenv("STYLE_LANGUAGE", "jp")
		os.Setenv("STYLE_RANDOM_CATEGORY", "anime")
		os.Setenv("STYLE_ENABLED_BY_DEFAULT", "false")
		os.Setenv("STYLES_UI", StylesUIRadioButtons)
		os.Setenv("LISTEN_ADDR", "127.0.0.1:9000")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "/custom/styles.json", cfg.StylesPath)
		assert.Equal(t, style.LanguageJapanese, cfg.Language)
		assert.Equal(t, "anime", cfg.RandomCategory)
		assert.False(t, cfg.EnabledByDefault)
		assert.Equal(t, StylesUIRadioButtons, cfg.StylesUI)
		assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	})

	t.Run("invalid language", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("STYLE_LANGUAGE", "klingon")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "STYLE_LANGUAGE")
	})

	t.Run("invalid boolean", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("STYLE_ENABLED_BY_DEFAULT", "sometimes")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "STYLE_ENABLED_BY_DEFAULT")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{StylesUI: StylesUISelectList}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("invalid styles ui", func(t *testing.T) {
		cfg := &Config{StylesUI: "dropdown"}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "STYLES_UI")
	})
}

func TestConfig_ValidateForHistory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{StylesUI: StylesUISelectList, DatabasePath: "test.db"}
		assert.NoError(t, cfg.ValidateForHistory())
	})

	t.Run("missing database path", func(t *testing.T) {
		cfg := &Config{StylesUI: StylesUISelectList}
		err := cfg.ValidateForHistory()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_PATH")
	})
}

func TestConfig_ValidateForIndex(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{StylesUI: StylesUISelectList, VecLitePath: "styles.veclite"}
		assert.NoError(t, cfg.ValidateForIndex())
	})

	t.Run("missing veclite path", func(t *testing.T) {
		cfg := &Config{StylesUI: StylesUISelectList}
		err := cfg.ValidateForIndex()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "VECLITE_PATH")
	})
}

func TestConfig_ValidateForServe(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{
			StylesUI:     StylesUISelectList,
			DatabasePath: "test.db",
			ListenAddr:   ":8080",
		}
		assert.NoError(t, cfg.ValidateForServe())
	})

	t.Run("missing listen addr", func(t *testing.T) {
		cfg := &Config{StylesUI: StylesUISelectList, DatabasePath: "test.db"}
		err := cfg.ValidateForServe()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "LISTEN_ADDR")
	})
}
