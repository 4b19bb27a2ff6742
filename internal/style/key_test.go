package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		input string
		kind  KeyKind
		name  string
	}{
		{"", KindBase, ""},
		{"base", KindBase, ""},
		{"Base", KindBase, ""},
		{"Random Select", KindRandom, ""},
		{"random", KindRandom, ""},
		{"anime", KindNamed, "anime"},
		{"  动漫 ", KindNamed, "动漫"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			k := ParseKey(tt.input)
			assert.Equal(t, tt.kind, k.Kind)
			assert.Equal(t, tt.name, k.Name)
		})
	}
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "base", BaseKey().String())
	assert.Equal(t, "Random Select", RandomKey().String())
	assert.Equal(t, "anime", NamedKey("anime").String())
	assert.Equal(t, "anime", CanonicalKey("anime").String())
}

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage("Chinese")
	assert.NoError(t, err)
	assert.Equal(t, LanguageChinese, lang)

	lang, err = ParseLanguage("ja")
	assert.NoError(t, err)
	assert.Equal(t, LanguageJapanese, lang)

	lang, err = ParseLanguage("")
	assert.NoError(t, err)
	assert.Equal(t, LanguageDefault, lang)

	lang, err = ParseLanguage("klingon")
	assert.Error(t, err)
	assert.Equal(t, LanguageDefault, lang)
}
