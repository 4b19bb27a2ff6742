package inject

import (
	"strings"

	"github.com/abdulachik/styleselector/internal/style"
)

const separator = ", "

// Combine joins addition onto existing, in front when atBeginning is set. Empty
// or blank parts add no separator.
func Combine(existing, addition string, atBeginning bool) string {
	if strings.TrimSpace(addition) == "" {
		return existing
	}
	if strings.TrimSpace(existing) == "" {
		return addition
	}
	if atBeginning {
		return addition + separator + existing
	}
	return existing + separator + addition
}

// CopyToPrompt appends the fragments of every non-base key to prompt and negative.
func CopyToPrompt(r Resolver, prompt, negative string, keys []style.Key) (string, string) {
	lang := r.Language()
	var positives, negatives []string
	for _, k := range keys {
		if k.IsBase() {
			continue
		}
		if p := strings.Trim(r.ResolvePositiveIn(lang, k, "", false), separator); p != "" {
			positives = append(positives, p)
		}
		if n := strings.Trim(r.ResolveNegativeIn(lang, k, ""), separator); n != "" {
			negatives = append(negatives, n)
		}
	}
	return Combine(prompt, strings.Join(positives, separator), false),
		Combine(negative, strings.Join(negatives, separator), false)
}

func joinFragments(fragments []string) string {
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = strings.Trim(f, separator); f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, separator)
}
