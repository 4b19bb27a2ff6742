package style

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"
)

// MaxSample is the largest number of styles drawn for one random sample.
const MaxSample = 3

// Session owns the active catalog file, the display language and the random
// category. Parsed catalogs are cached by path; the entry for a path is dropped
// when the session switches away from it or appends to it.
type Session struct {
	mu       sync.Mutex
	path     string
	language Language
	category string
	catalogs *cache.Cache
	rng      *rand.Rand
	logger   *slog.Logger
}

// SessionConfig holds session configuration.
type SessionConfig struct {
	// Path is the catalog file. Empty selects the bundled catalog.
	Path     string
	Language Language
	Category string

	// Rand drives random selection. Defaults to a randomly seeded PCG.
	Rand   *rand.Rand
	Logger *slog.Logger
}

// NewSession creates a session. The catalog is loaded lazily.
func NewSession(cfg SessionConfig) *Session {
	lang := cfg.Language
	if lang == "" {
		lang = LanguageDefault
	}
	category := cfg.Category
	if category == "" {
		category = AllCategories
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		path:     cfg.Path,
		language: lang,
		category: category,
		catalogs: cache.New(cache.NoExpiration, 0),
		rng:      rng,
		logger:   logger,
	}
}

// Path returns the active catalog path ("" for the bundled catalog).
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Language returns the display language.
func (s *Session) Language() Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// SetLanguage changes the display language.
func (s *Session) SetLanguage(lang Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
}

// Category returns the category used for random selection.
func (s *Session) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// SetCategory changes the category used for random selection.
func (s *Session) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category == "" {
		category = AllCategories
	}
	s.category = category
}

// Use switches the session to the catalog at path and loads it. On a load error
// the switch still happens and reads see an empty catalog until the next Use.
func (s *Session) Use(path string) (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path != s.path {
		s.catalogs.Delete(cacheKey(s.path))
		s.path = path
	}
	s.catalogs.Delete(cacheKey(path))

	c, err := s.loadLocked()
	if err != nil {
		return c, err
	}
	s.logger.Info("catalog loaded", "source", c.Source(), "styles", c.Len())
	return c, nil
}

// Catalog returns the active catalog. A failed load is logged once and the empty
// catalog stays cached for the path until Use or Append evicts it.
func (s *Session) Catalog() *Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogLocked()
}

// ListStyleNames returns the display names in the session language, sorted, with
// RandomLabel first.
func (s *Session) ListStyleNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogLocked().StyleNames(s.language)
}

// ListCategories returns every category in the active catalog plus AllCategories.
func (s *Session) ListCategories() []string {
	return s.Catalog().Categories()
}

// ReverseLookup maps a display name in the session language to its canonical name.
func (s *Session) ReverseLookup(display string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogLocked().ReverseLookup(display, s.language)
}

// Pick draws one record uniformly from the candidates of category.
func (s *Session) Pick(category string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pickLocked(s.catalogLocked(), category)
}

// PickDisplay is Pick returning the display name in the session language.
func (s *Session) PickDisplay(category string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.pickLocked(s.catalogLocked(), category)
	if !ok {
		return "", false
	}
	return rec.DisplayName(s.language), true
}

// Sample draws k distinct records from the candidates of category. k is clamped
// to 1..MaxSample and to the number of candidates.
func (s *Session) Sample(category string, k int) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := s.catalogLocked().Candidates(category)
	if len(candidates) == 0 {
		s.logger.Warn("random sample skipped", "category", category, "error", ErrEmptyCatalog)
		return nil
	}
	k = max(1, min(k, MaxSample, len(candidates)))

	out := make([]Record, 0, k)
	for _, i := range s.rng.Perm(len(candidates))[:k] {
		out = append(out, candidates[i])
	}
	return out
}

// ResolvePositive produces the positive text for key in the session language.
//
// Base yields an empty fragment. Random picks from the session category and returns
// text unchanged when nothing is available. A named key that matches no record also
// returns text unchanged. Otherwise the record's template is filled with text and,
// when text is non-empty, joined with it: text first unless appendMode is set.
func (s *Session) ResolvePositive(key Key, text string, appendMode bool) string {
	return s.ResolvePositiveIn("", key, text, appendMode)
}

// ResolvePositiveIn is ResolvePositive with named keys looked up in lang. An empty
// lang means the session language. The session itself is not changed.
func (s *Session) ResolvePositiveIn(lang Language, key Key, text string, appendMode bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, res := s.resolveLocked(key, s.langOr(lang))
	switch res {
	case resolvedNone:
		return ""
	case resolvedFallback:
		return text
	}

	styleText := rec.Apply(text)
	if text == "" {
		return styleText
	}
	if appendMode {
		return joinNonEmpty(styleText, text)
	}
	return joinNonEmpty(text, styleText)
}

// ResolveNegative produces the negative text for key: the record's negative prompt
// and text, comma-joined, with empty parts dropped. Fallbacks match ResolvePositive.
func (s *Session) ResolveNegative(key Key, text string) string {
	return s.ResolveNegativeIn("", key, text)
}

// ResolveNegativeIn is ResolveNegative with named keys looked up in lang.
func (s *Session) ResolveNegativeIn(lang Language, key Key, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, res := s.resolveLocked(key, s.langOr(lang))
	switch res {
	case resolvedNone:
		return ""
	case resolvedFallback:
		return text
	}
	return joinNonEmpty(rec.NegativePrompt, text)
}

// Append persists rec to the active catalog file. The cached catalog is dropped so
// the next resolution sees the new record.
func (s *Session) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return fmt.Errorf("%w: the bundled catalog cannot be modified, run init first", ErrReadOnlyCatalog)
	}
	if err := AppendRecord(s.path, rec); err != nil {
		s.logger.Warn("failed to append style", "path", s.path, "style", rec.Name, "error", err)
		return err
	}
	s.catalogs.Delete(cacheKey(s.path))
	s.logger.Info("style appended", "path", s.path, "style", rec.Name)
	return nil
}

type resolution int

const (
	resolvedRecord resolution = iota
	resolvedNone
	resolvedFallback
)

func (s *Session) resolveLocked(key Key, lang Language) (Record, resolution) {
	catalog := s.catalogLocked()

	name := key.Name
	switch key.Kind {
	case KindBase:
		return Record{}, resolvedNone
	case KindRandom:
		rec, ok := s.pickLocked(catalog, s.category)
		if !ok {
			return Record{}, resolvedFallback
		}
		return rec, resolvedRecord
	case KindNamed:
		name = catalog.ReverseLookup(key.Name, lang)
	}

	rec, ok := catalog.Find(name)
	if !ok {
		s.logger.Warn("style lookup failed",
			"style", key.Name,
			"source", catalog.Source(),
			"error", ErrStyleNotFound,
		)
		return Record{}, resolvedFallback
	}
	return rec, resolvedRecord
}

func (s *Session) langOr(lang Language) Language {
	if lang == "" {
		return s.language
	}
	return lang
}

func (s *Session) pickLocked(catalog *Catalog, category string) (Record, bool) {
	candidates := catalog.Candidates(category)
	if len(candidates) == 0 {
		s.logger.Warn("random selection skipped",
			"category", category,
			"source", catalog.Source(),
			"error", ErrEmptyCatalog,
		)
		return Record{}, false
	}
	return candidates[s.rng.IntN(len(candidates))], true
}

func (s *Session) catalogLocked() *Catalog {
	if v, ok := s.catalogs.Get(cacheKey(s.path)); ok {
		return v.(*Catalog)
	}
	c, err := s.loadLocked()
	if err != nil {
		s.logger.Warn("using empty catalog", "path", s.path, "error", err)
	}
	return c
}

func (s *Session) loadLocked() (*Catalog, error) {
	var (
		c   *Catalog
		err error
	)
	if s.path == "" {
		c, err = DefaultCatalog()
	} else {
		c, err = LoadFile(s.path)
	}
	if err != nil {
		if !errors.Is(err, ErrCatalogLoad) {
			err = fmt.Errorf("%w: %v", ErrCatalogLoad, err)
		}
		empty := EmptyCatalog(sourceName(s.path))
		s.catalogs.Set(cacheKey(s.path), empty, cache.NoExpiration)
		return empty, err
	}
	if c.Skipped() > 0 {
		s.logger.Warn("catalog entries without a name were skipped", "source", c.Source(), "skipped", c.Skipped())
	}
	s.catalogs.Set(cacheKey(s.path), c, cache.NoExpiration)
	return c, nil
}

func cacheKey(path string) string {
	return sourceName(path)
}

func sourceName(path string) string {
	if path == "" {
		return EmbeddedSource
	}
	return path
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
