package authors

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Directory maps short identifiers to authors. It is built once and never
// mutated, so a single value may be shared by concurrent readers.
type Directory struct {
	entries map[string]Author
}

// defaultEntries is the site's literal author table.
var defaultEntries = map[string]Author{
	"mat": {
		Name:  "Mateusz Tymek",
		Title: "CTO & Co-founder at Cleeng",
		URL:   "https://github.com/mtymek",
	},
}

// DefaultDirectory returns the directory built from the site's author table.
func DefaultDirectory() Directory {
	d, err := NewDirectory(defaultEntries)
	if err != nil {
		panic("authors: invalid default directory: " + err.Error())
	}
	return d
}

// NewDirectory copies entries into a new Directory after validating each one.
func NewDirectory(entries map[string]Author) (Directory, error) {
	return Directory{}.With(entries)
}

// With returns a new Directory holding d's entries overlaid by entries.
// d itself is left untouched.
func (d Directory) With(entries map[string]Author) (Directory, error) {
	merged := make(map[string]Author, len(d.entries)+len(entries))
	for id, a := range d.entries {
		merged[id] = a
	}
	for id, a := range entries {
		if id == "" {
			return Directory{}, fmt.Errorf("author id must not be empty")
		}
		if issues := a.Validate(); len(issues) > 0 {
			return Directory{}, fmt.Errorf("author %q: %s: %s", id, issues[0].Field, issues[0].Reason)
		}
		merged[id] = a
	}
	return Directory{entries: merged}, nil
}

// LoadDirectory reads a YAML mapping of id to author from path and overlays
// it onto base.
func LoadDirectory(path string, base Directory) (Directory, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Directory{}, fmt.Errorf("read authors %s: %w", path, err)
	}
	var entries map[string]Author
	if err := yaml.Unmarshal(b, &entries); err != nil {
		return Directory{}, fmt.Errorf("unmarshal authors %s: %w", path, err)
	}
	d, err := base.With(entries)
	if err != nil {
		return Directory{}, fmt.Errorf("authors %s: %w", path, err)
	}
	return d, nil
}

// Lookup returns the author registered under id.
func (d Directory) Lookup(id string) (Author, bool) {
	a, ok := d.entries[id]
	return a, ok
}

// IDs returns the registered identifiers in sorted order.
func (d Directory) IDs() []string {
	ids := make([]string, 0, len(d.entries))
	for id := range d.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered authors.
func (d Directory) Len() int {
	return len(d.entries)
}
