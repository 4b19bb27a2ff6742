package inject

import (
	"fmt"
	"strings"
)

// Mode selects how styles are assigned to the prompts of a batch.
type Mode string

const (
	// ModeFixed applies the selected slots to every prompt.
	ModeFixed Mode = "fixed"
	// ModeAllInOrder gives prompt i catalog record i mod len(catalog).
	ModeAllInOrder Mode = "all-in-order"
	// ModeRandomizeOnce draws one sample and reuses it for every prompt.
	ModeRandomizeOnce Mode = "randomize-once"
	// ModeRandomizePerIndex draws an independent sample for each prompt.
	ModeRandomizePerIndex Mode = "randomize-per-index"
)

// Modes lists every mode.
var Modes = []Mode{ModeFixed, ModeAllInOrder, ModeRandomizeOnce, ModeRandomizePerIndex}

// ParseMode maps s to a Mode. Empty input selects ModeFixed.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return ModeFixed, nil
	case "all-in-order", "all", "in-order":
		return ModeAllInOrder, nil
	case "randomize-once", "random-once":
		return ModeRandomizeOnce, nil
	case "randomize-per-index", "random-per-index", "per-index":
		return ModeRandomizePerIndex, nil
	}
	return "", fmt.Errorf("unknown mode %q (must be one of fixed, all-in-order, randomize-once, randomize-per-index)", s)
}
