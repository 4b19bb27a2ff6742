package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/styleselector/internal/config"
	"github.com/abdulachik/styleselector/internal/inject"
	"github.com/abdulachik/styleselector/internal/style"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Language:       style.LanguageDefault,
		RandomCategory: style.AllCategories,
		DatabasePath:   filepath.Join(t.TempDir(), "history.db"),
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	t.Run("bundled catalog without history", func(t *testing.T) {
		a, err := New(ctx, testConfig(t), Options{Logger: logger})
		require.NoError(t, err)
		defer a.Close()

		assert.Nil(t, a.Store)
		assert.Equal(t, "", a.Session.Path())
		assert.Equal(t, style.EmbeddedSource, a.Session.Catalog().Source())
		assert.Greater(t, a.Session.Catalog().Len(), 0)
	})

	t.Run("overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "styles.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"name":"anime","prompt":"anime {prompt}"}]`), 0o644))

		a, err := New(ctx, testConfig(t), Options{
			StylesPath: path,
			Language:   style.LanguageJapanese,
			Logger:     logger,
		})
		require.NoError(t, err)
		defer a.Close()

		assert.Equal(t, path, a.Session.Path())
		assert.Equal(t, style.LanguageJapanese, a.Session.Language())

		batch := &inject.Batch{Prompts: []string{"a cat"}}
		a.Injector.Apply(batch, inject.Options{Enabled: true, Styles: []style.Key{style.NamedKey("anime")}})
		assert.Equal(t, []string{"a cat, anime"}, batch.Prompts)
	})

	t.Run("with history", func(t *testing.T) {
		a, err := New(ctx, testConfig(t), Options{WithHistory: true, Logger: logger})
		require.NoError(t, err)
		defer a.Close()

		require.NotNil(t, a.Store)
		count, err := a.Store.CountRuns(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}
