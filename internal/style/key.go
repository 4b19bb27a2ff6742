package style

import "strings"

const (
	// BaseToken is the UI value meaning "no style".
	BaseToken = "base"

	// RandomLabel is the entry prepended to style lists.
	RandomLabel = "Random Select"

	randomToken = "random"
)

// KeyKind tags a Key.
type KeyKind int

const (
	KindBase KeyKind = iota
	KindRandom
	KindNamed
	KindCanonical
)

// Key identifies a style selection. Sentinel strings are decoded once by ParseKey
// so nothing downstream compares against magic values.
type Key struct {
	Kind KeyKind
	Name string
}

// BaseKey selects no style.
func BaseKey() Key { return Key{Kind: KindBase} }

// RandomKey selects a random style from the active category.
func RandomKey() Key { return Key{Kind: KindRandom} }

// NamedKey selects a style by canonical or display name.
func NamedKey(name string) Key { return Key{Kind: KindNamed, Name: name} }

// CanonicalKey selects a style by its canonical name only. Keys built from
// catalog records use it so a display name in another record cannot shadow them.
func CanonicalKey(name string) Key { return Key{Kind: KindCanonical, Name: name} }

// ParseKey decodes a UI value.
func ParseKey(s string) Key {
	trimmed := strings.TrimSpace(s)
	switch {
	case trimmed == "" || strings.EqualFold(trimmed, BaseToken):
		return BaseKey()
	case strings.EqualFold(trimmed, RandomLabel) || strings.EqualFold(trimmed, randomToken):
		return RandomKey()
	}
	return NamedKey(trimmed)
}

// ParseKeys decodes each value in order.
func ParseKeys(values []string) []Key {
	keys := make([]Key, len(values))
	for i, v := range values {
		keys[i] = ParseKey(v)
	}
	return keys
}

func (k Key) IsBase() bool   { return k.Kind == KindBase }
func (k Key) IsRandom() bool { return k.Kind == KindRandom }

// String renders the key as the UI would show it.
func (k Key) String() string {
	switch k.Kind {
	case KindBase:
		return BaseToken
	case KindRandom:
		return RandomLabel
	}
	return k.Name
}
