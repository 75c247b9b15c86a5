package catalog

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/errkit/errors"
	"github.com/kbukum/errkit/validation"
)

// DefaultPath is the bundled resource path Build reads.
const DefaultPath = "error/exception.yml"

// ErrLoad is wrapped by every error returned from the loaders.
var ErrLoad = stderrors.New("catalog: load failed")

// Catalog is an immutable mapping from business error key to ErrorInfo.
type Catalog struct {
	source  string
	entries map[string]errors.ErrorInfo
}

// Build loads the catalog from DefaultPath inside fsys.
func Build(fsys fs.FS) (*Catalog, error) {
	return Load(fsys, DefaultPath)
}

// Load loads the catalog at path inside fsys.
func Load(fsys fs.FS, path string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrLoad, path, err)
	}
	return Parse(path, data)
}

// LoadFile loads the catalog from a file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrLoad, path, err)
	}
	return Parse(path, data)
}

// Parse decodes catalog YAML. source names the document in error messages.
// Unknown entry fields, duplicate keys, statuses outside 400..599 and empty
// messages are rejected.
func Parse(source string, data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	entries := make(map[string]errors.ErrorInfo)
	if err := dec.Decode(&entries); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s is empty", ErrLoad, source)
		}
		return nil, fmt.Errorf("%w: parse %s: %w", ErrLoad, source, err)
	}

	for _, key := range sortedKeys(entries) {
		if key == "" {
			return nil, fmt.Errorf("%w: %s: empty error key", ErrLoad, source)
		}
		if fields := validation.Struct(entries[key]); len(fields) > 0 {
			return nil, fmt.Errorf("%w: %s: entry %q: %w", ErrLoad, source, key, validation.FieldErrors(fields))
		}
	}

	return &Catalog{source: source, entries: entries}, nil
}

// Lookup returns the entry for key.
func (c *Catalog) Lookup(key string) (errors.ErrorInfo, bool) {
	if c == nil {
		return errors.ErrorInfo{}, false
	}
	info, ok := c.entries[key]
	return info, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Keys returns all keys in sorted order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	return sortedKeys(c.entries)
}

// Source returns the path the catalog was loaded from.
func (c *Catalog) Source() string {
	if c == nil {
		return ""
	}
	return c.source
}

func sortedKeys(m map[string]errors.ErrorInfo) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
