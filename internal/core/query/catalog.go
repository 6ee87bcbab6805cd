// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/relic/pkg/slug"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Named is one catalog statement.
type Named struct {
	Slug  string `json:"slug" yaml:"-"`
	Label string `json:"label" yaml:"label"`
	SQL   string `json:"sql" yaml:"sql"`
}

// Catalog is the ordered set of named statements.
type Catalog struct {
	entries []Named
	bySlug  map[string]int
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog builds a catalog from YAML. Labels must be present and slug to
// unique values; every entry needs a statement.
func ParseCatalog(data []byte) (*Catalog, error) {
	var document struct {
		Queries []Named `yaml:"queries"`
	}
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("query: parse catalog: %w", err)
	}

	catalog := &Catalog{
		entries: make([]Named, 0, len(document.Queries)),
		bySlug:  make(map[string]int, len(document.Queries)),
	}
	for i, entry := range document.Queries {
		entry.Label = strings.TrimSpace(entry.Label)
		entry.SQL = strings.TrimSpace(entry.SQL)
		entry.Slug = slug.From(entry.Label)

		if entry.Slug == "" || entry.SQL == "" {
			return nil, fmt.Errorf("query: catalog entry %d: label and sql are required", i)
		}
		if _, dup := catalog.bySlug[entry.Slug]; dup {
			return nil, fmt.Errorf("query: catalog entry %d: duplicate slug %q", i, entry.Slug)
		}

		catalog.bySlug[entry.Slug] = len(catalog.entries)
		catalog.entries = append(catalog.entries, entry)
	}
	return catalog, nil
}

// List returns the entries in catalog order.
func (c *Catalog) List() []Named {
	return append([]Named(nil), c.entries...)
}

// Lookup finds an entry by slug or by label.
func (c *Catalog) Lookup(key string) (Named, bool) {
	index, ok := c.bySlug[slug.From(key)]
	if !ok {
		return Named{}, false
	}
	return c.entries[index], true
}
