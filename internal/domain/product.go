package domain

import "sort"

// CatalogEntry is a known product. Name is the lowercase canonical key used for matching.
type CatalogEntry struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category,omitempty"`
}

// Catalog is an immutable snapshot of the product catalog keyed by canonical name
type Catalog struct {
	entries map[string]CatalogEntry
	keys    []string
}

// NewCatalog builds a catalog snapshot. Later entries with a duplicate name replace earlier ones.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{entries: make(map[string]CatalogEntry, len(entries))}
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		if e.DisplayName == "" {
			e.DisplayName = e.Name
		}
		c.entries[e.Name] = e
	}

	c.keys = make([]string, 0, len(c.entries))
	for k := range c.entries {
		c.keys = append(c.keys, k)
	}
	sort.Strings(c.keys)

	return c
}

// Lookup returns the entry for a canonical key
func (c *Catalog) Lookup(key string) (CatalogEntry, bool) {
	if c == nil {
		return CatalogEntry{}, false
	}
	e, ok := c.entries[key]
	return e, ok
}

// Keys returns the canonical names in sorted order. The slice must not be modified.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	return c.keys
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}
