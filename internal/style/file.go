package style

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// LoadFile reads and parses a catalog file. All failures wrap ErrCatalogLoad.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- catalog path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogLoad, err)
	}
	return Parse(bytes.TrimPrefix(data, utf8BOM), path)
}

// AppendRecord adds rec to the end of the catalog at path. The whole document is
// rewritten; existing entries are carried as raw JSON so none are altered or
// reordered.
func AppendRecord(path string, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- catalog path is user-provided
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	existing, err := Parse(data, path)
	if err != nil {
		return err
	}
	if _, ok := existing.Find(rec.Name); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStyle, rec.Name)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &entries); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCatalogLoad, path, err)
	}

	encoded, err := encodeJSON(rec, "")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	entries = append(entries, bytes.TrimSpace(encoded))

	out, err := encodeJSON(entries, "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return writeFileAtomic(path, out)
}

// encodeJSON marshals v without HTML escaping; prompts routinely contain < > &.
func encodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ListCatalogFiles returns the sorted names of the JSON files in dir.
func ListCatalogFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ResolveCatalogFile joins a listed file name onto dir, rejecting anything that
// would escape it.
func ResolveCatalogFile(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid catalog name %q", name)
	}
	if !strings.EqualFold(filepath.Ext(name), ".json") {
		return "", fmt.Errorf("catalog %q is not a .json file", name)
	}
	return filepath.Join(dir, name), nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close catalog: %w", err)
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
