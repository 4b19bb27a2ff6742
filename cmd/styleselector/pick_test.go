package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/styleselector/internal/style"
)

func TestPrintPick(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name":"anime","namezh":"动漫","prompt":"anime {prompt}","category":"illustration"},
		{"name":"photo","prompt":"photograph {prompt}","category":"photography"}
	]`), 0o644))
	s := style.NewSession(style.SessionConfig{
		Path:     path,
		Language: style.LanguageChinese,
		Logger:   slog.New(slog.DiscardHandler),
	})

	t.Run("prints the display name", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, printPick(&out, s, "illustration"))
		assert.Equal(t, "动漫\n", out.String())
	})

	t.Run("empty category", func(t *testing.T) {
		var out bytes.Buffer
		err := printPick(&out, s, "sculpture")
		assert.ErrorIs(t, err, style.ErrEmptyCatalog)
		assert.Empty(t, out.String())
	})
}
