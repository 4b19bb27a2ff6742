package style

import (
	"fmt"
	"strings"
)

// Language selects which display name the catalog shows.
type Language string

const (
	LanguageDefault  Language = "default"
	LanguageChinese  Language = "chinese"
	LanguageJapanese Language = "japanese"
)

// Languages lists the supported display languages.
var Languages = []Language{LanguageDefault, LanguageChinese, LanguageJapanese}

// ParseLanguage maps s to a Language. Unknown values return LanguageDefault and an error.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return LanguageDefault, nil
	case "chinese", "zh":
		return LanguageChinese, nil
	case "japanese", "jp", "ja":
		return LanguageJapanese, nil
	}
	return LanguageDefault, fmt.Errorf("unknown language %q (must be default, chinese or japanese)", s)
}
