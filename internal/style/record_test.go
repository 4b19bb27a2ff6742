package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Categories(t *testing.T) {
	tests := []struct {
		category string
		expected []string
	}{
		{"", nil},
		{"anime", []string{"anime"}},
		{"anime, illustration", []string{"anime", "illustration"}},
		{" a ,, b ,", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			r := Record{Category: tt.category}
			assert.Equal(t, tt.expected, r.Categories())
		})
	}
}

func TestRecord_DisplayName(t *testing.T) {
	r := Record{Name: "anime", NameZH: "动漫"}

	assert.Equal(t, "anime", r.DisplayName(LanguageDefault))
	assert.Equal(t, "动漫", r.DisplayName(LanguageChinese))
	assert.Equal(t, "anime", r.DisplayName(LanguageJapanese))
}

func TestRecord_Apply(t *testing.T) {
	r := Record{Prompt: "anime style, {prompt}"}

	assert.Equal(t, "anime style, a cat", r.Apply("a cat"))
	assert.Equal(t, "anime style, ", r.Apply(""))
	assert.Equal(t, "no marker", Record{Prompt: "no marker"}.Apply("a cat"))
}

func TestRecord_Validate(t *testing.T) {
	assert.NoError(t, Record{Name: "a", Prompt: "{prompt}"}.Validate())
	assert.ErrorIs(t, Record{Prompt: "{prompt}"}.Validate(), ErrInvalidRecord)
	assert.ErrorIs(t, Record{Name: "a", Prompt: "  "}.Validate(), ErrInvalidRecord)
}
