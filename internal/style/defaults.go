package style

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// EmbeddedSource is the Source of the bundled catalog.
const EmbeddedSource = "embedded"

//go:embed defaults/sdxl_styles.json
var defaultCatalogJSON []byte

// DefaultCatalog parses the bundled catalog.
func DefaultCatalog() (*Catalog, error) {
	return Parse(defaultCatalogJSON, EmbeddedSource)
}

// WriteDefault writes the bundled catalog to path. It refuses to overwrite an
// existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	if err := os.WriteFile(path, defaultCatalogJSON, 0644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
