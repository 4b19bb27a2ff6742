// Package inject applies catalog styles to the prompts of a generation batch.
package inject

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/abdulachik/styleselector/internal/style"
)

// Metadata keys written to Batch.Extra.
const (
	MetaEnabled          = "Style Selector Enabled"
	MetaAtBeginning      = "Style Selector At Beginning"
	MetaUseCurrentPrompt = "Style Selector Use Current Prompt"
	MetaLanguage         = "Style Selector Language"
	MetaRandomCategory   = "Style Selector Random Category"
	MetaMode             = "Style Selector Mode"
	MetaStylesUsed       = "Style Selector Styles Used"
)

// DefaultRandomCount is the sample size for the randomize modes.
const DefaultRandomCount = style.MaxSample

// Resolver is the part of style.Session the injector needs.
type Resolver interface {
	Catalog() *style.Catalog
	Language() style.Language
	Pick(category string) (style.Record, bool)
	Sample(category string, k int) []style.Record
	ResolvePositiveIn(lang style.Language, key style.Key, text string, appendMode bool) string
	ResolveNegativeIn(lang style.Language, key style.Key, text string) string
}

// Batch is the host's generation context. Prompts and NegativePrompts are
// rewritten in place; Extra receives generation metadata.
type Batch struct {
	Prompts         []string          `json:"prompts"`
	NegativePrompts []string          `json:"negative_prompts"`
	Extra           map[string]string `json:"extra,omitempty"`
}

// Options configures one Apply call.
type Options struct {
	Enabled          bool
	Styles           []style.Key
	Mode             Mode
	AtBeginning      bool
	UseCurrentPrompt bool
	CurrentPrompt    string
	CurrentNegative  string
	RandomCount      int
	Category         string

	// Language is used to look up display-name keys for this call only.
	// Empty means the resolver's language.
	Language style.Language
}

// Report describes what Apply did.
type Report struct {
	Mode       Mode
	Language   style.Language
	PerIndex   [][]string
	StylesUsed []string
}

// Injector applies styles to batches.
type Injector struct {
	resolver Resolver
	logger   *slog.Logger
}

// Config holds injector configuration.
type Config struct {
	Resolver Resolver
	Logger   *slog.Logger
}

// New creates an injector.
func New(cfg Config) *Injector {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Injector{resolver: cfg.Resolver, logger: logger}
}

// Apply rewrites the batch prompts. It never fails: styles that cannot be
// resolved leave the prompt as it was.
func (i *Injector) Apply(batch *Batch, opts Options) Report {
	if batch == nil || !opts.Enabled {
		return Report{Mode: opts.Mode}
	}
	if opts.Mode == "" {
		opts.Mode = ModeFixed
	}
	if opts.Category == "" {
		opts.Category = style.AllCategories
	}
	if opts.RandomCount <= 0 {
		opts.RandomCount = DefaultRandomCount
	}
	if opts.Language == "" {
		opts.Language = i.resolver.Language()
	}

	size := max(len(batch.Prompts), len(batch.NegativePrompts))
	sets := i.styleSets(size, opts)

	report := Report{Mode: opts.Mode, Language: opts.Language, PerIndex: make([][]string, size)}
	seen := map[string]bool{}
	for idx, keys := range sets {
		for _, k := range keys {
			if k.IsBase() {
				continue
			}
			report.PerIndex[idx] = append(report.PerIndex[idx], k.String())
			if !seen[k.String()] {
				seen[k.String()] = true
				report.StylesUsed = append(report.StylesUsed, k.String())
			}
		}
	}

	i.logger.Debug("injecting styles",
		"batch_size", size,
		"mode", opts.Mode,
		"category", opts.Category,
		"language", opts.Language,
		"styles", report.StylesUsed,
	)

	for idx, original := range batch.Prompts {
		fragments := make([]string, 0, len(sets[idx]))
		for _, k := range sets[idx] {
			fragments = append(fragments, i.resolver.ResolvePositiveIn(opts.Language, k, "", false))
		}
		batch.Prompts[idx] = i.inject(original, fragments, opts.UseCurrentPrompt, opts.CurrentPrompt, opts.AtBeginning)
	}

	for idx, original := range batch.NegativePrompts {
		fragments := make([]string, 0, len(sets[idx]))
		for _, k := range sets[idx] {
			fragments = append(fragments, i.resolver.ResolveNegativeIn(opts.Language, k, ""))
		}
		batch.NegativePrompts[idx] = i.inject(original, fragments, opts.UseCurrentPrompt, opts.CurrentNegative, opts.AtBeginning)
	}

	if batch.Extra == nil {
		batch.Extra = make(map[string]string)
	}
	batch.Extra[MetaEnabled] = "true"
	batch.Extra[MetaAtBeginning] = strconv.FormatBool(opts.AtBeginning)
	batch.Extra[MetaUseCurrentPrompt] = strconv.FormatBool(opts.UseCurrentPrompt)
	batch.Extra[MetaLanguage] = string(opts.Language)
	batch.Extra[MetaRandomCategory] = opts.Category
	batch.Extra[MetaMode] = string(opts.Mode)
	batch.Extra[MetaStylesUsed] = strings.Join(report.StylesUsed, separator)

	return report
}

func (i *Injector) inject(original string, fragments []string, useCurrent bool, current string, atBeginning bool) string {
	var parts []string
	if s := joinFragments(fragments); s != "" {
		parts = append(parts, s)
	}
	if useCurrent {
		if c := strings.TrimSpace(current); c != "" {
			parts = append(parts, c)
		}
	}
	return Combine(original, strings.Join(parts, separator), atBeginning)
}

// styleSets returns the keys to resolve for each prompt index.
func (i *Injector) styleSets(size int, opts Options) [][]style.Key {
	sets := make([][]style.Key, size)

	switch opts.Mode {
	case ModeAllInOrder:
		catalog := i.resolver.Catalog()
		if catalog.Len() == 0 {
			i.logger.Warn("all-in-order skipped", "error", style.ErrEmptyCatalog)
			return sets
		}
		for idx := range sets {
			sets[idx] = []style.Key{style.CanonicalKey(catalog.At(idx % catalog.Len()).Name)}
		}

	case ModeRandomizeOnce:
		keys := recordKeys(i.resolver.Sample(opts.Category, opts.RandomCount))
		for idx := range sets {
			sets[idx] = keys
		}

	case ModeRandomizePerIndex:
		for idx := range sets {
			sets[idx] = recordKeys(i.resolver.Sample(opts.Category, opts.RandomCount))
		}

	default:
		keys := make([]style.Key, 0, len(opts.Styles))
		for _, k := range opts.Styles {
			if k.IsRandom() {
				rec, ok := i.resolver.Pick(opts.Category)
				if !ok {
					continue
				}
				k = style.CanonicalKey(rec.Name)
			}
			keys = append(keys, k)
		}
		for idx := range sets {
			sets[idx] = keys
		}
	}
	return sets
}

func recordKeys(records []style.Record) []style.Key {
	keys := make([]style.Key, len(records))
	for i, r := range records {
		keys[i] = style.CanonicalKey(r.Name)
	}
	return keys
}
