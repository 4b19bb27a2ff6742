package style

import "errors"

var (
	// ErrCatalogLoad covers a missing or unreadable file, invalid JSON, and a root
	// that is not an array. Callers treat the catalog as empty.
	ErrCatalogLoad = errors.New("catalog load failed")

	// ErrStyleNotFound means a key matched no record. Resolution falls back to the
	// original text.
	ErrStyleNotFound = errors.New("style not found")

	// ErrEmptyCatalog means a random pick had no candidates.
	ErrEmptyCatalog = errors.New("no styles available")

	ErrInvalidRecord   = errors.New("invalid style record")
	ErrDuplicateStyle  = errors.New("style already exists")
	ErrReadOnlyCatalog = errors.New("catalog is read-only")
)
