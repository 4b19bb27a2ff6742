package style

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// AllCategories is the category that matches every record.
const AllCategories = "ALL"

// Catalog is an ordered, read-only list of style records loaded from one source.
type Catalog struct {
	records []Record
	source  string
	skipped int
}

// NewCatalog builds a catalog from records already in memory.
func NewCatalog(source string, records []Record) *Catalog {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Catalog{records: cp, source: source}
}

// EmptyCatalog returns a catalog with no records.
func EmptyCatalog(source string) *Catalog {
	return &Catalog{source: source}
}

// Parse decodes a catalog document. The root must be a JSON array of objects;
// objects without a name are skipped.
func Parse(data []byte, source string) (*Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: %s: empty document", ErrCatalogLoad, source)
	}
	if trimmed[0] != '[' && json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: %s: root must be an array", ErrCatalogLoad, source)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCatalogLoad, source, err)
	}

	c := &Catalog{source: source, records: make([]Record, 0, len(raw))}
	for i, item := range raw {
		var rec Record
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, fmt.Errorf("%w: %s: entry %d: %v", ErrCatalogLoad, source, i, err)
		}
		if rec.Name == "" {
			c.skipped++
			continue
		}
		c.records = append(c.records, rec)
	}
	return c, nil
}

// Source is the path the catalog was read from, or "embedded".
func (c *Catalog) Source() string { return c.source }

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// Skipped returns how many entries were dropped for lacking a name.
func (c *Catalog) Skipped() int { return c.skipped }

// Records returns a copy of the records in catalog order.
func (c *Catalog) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// At returns the record at index i.
func (c *Catalog) At(i int) Record { return c.records[i] }

// Find returns the first record whose canonical name equals name.
func (c *Catalog) Find(name string) (Record, bool) {
	for _, r := range c.records {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}

// ReverseLookup maps a display name in lang back to its canonical name. The first
// record in catalog order whose localized name (or canonical name) equals display
// wins. Unmatched input is returned unchanged, so a display name that equals some
// other record's canonical name resolves to that record.
func (c *Catalog) ReverseLookup(display string, lang Language) string {
	for _, r := range c.records {
		switch {
		case lang == LanguageChinese && r.NameZH != "" && r.NameZH == display:
			return r.Name
		case lang == LanguageJapanese && r.NameJP != "" && r.NameJP == display:
			return r.Name
		case r.Name == display:
			return r.Name
		}
	}
	return display
}

// StyleNames returns sorted display names for lang with RandomLabel first.
func (c *Catalog) StyleNames(lang Language) []string {
	names := make([]string, 0, len(c.records)+1)
	for _, r := range c.records {
		names = append(names, r.DisplayName(lang))
	}
	sort.Strings(names)
	return append([]string{RandomLabel}, names...)
}

// Categories returns every tag used in the catalog plus AllCategories, sorted.
func (c *Catalog) Categories() []string {
	set := map[string]struct{}{AllCategories: {}}
	for _, r := range c.records {
		for _, tag := range r.Categories() {
			set[tag] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Candidates returns the records tagged with category. AllCategories or an empty
// category selects every record.
func (c *Catalog) Candidates(category string) []Record {
	if category == "" || category == AllCategories {
		return c.Records()
	}
	var out []Record
	for _, r := range c.records {
		if r.HasCategory(category) {
			out = append(out, r)
		}
	}
	return out
}
