package domain

import (
	"sort"
	"strings"
)

// EquipmentEntry is a known kitchen tool. Name is the lowercase key users type.
type EquipmentEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EquipmentCatalog is an immutable set of known equipment keyed by name
type EquipmentCatalog struct {
	entries map[string]EquipmentEntry
	names   []string
}

// NewEquipmentCatalog builds the catalog. Names are lowercased and trimmed; blank names
// are skipped.
func NewEquipmentCatalog(entries []EquipmentEntry) *EquipmentCatalog {
	c := &EquipmentCatalog{entries: make(map[string]EquipmentEntry, len(entries))}
	for _, e := range entries {
		e.Name = strings.ToLower(strings.TrimSpace(e.Name))
		if e.Name == "" {
			continue
		}
		c.entries[e.Name] = e
	}
	c.names = make([]string, 0, len(c.entries))
	for name := range c.entries {
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	return c
}

// Lookup returns the entry for a name
func (c *EquipmentCatalog) Lookup(name string) (EquipmentEntry, bool) {
	if c == nil {
		return EquipmentEntry{}, false
	}
	e, ok := c.entries[name]
	return e, ok
}

// Names returns the known names in sorted order. The slice must not be modified.
func (c *EquipmentCatalog) Names() []string {
	if c == nil {
		return nil
	}
	return c.names
}

// Len returns the number of entries
func (c *EquipmentCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// EquipmentReport is the result of adding or removing equipment
type EquipmentReport struct {
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	NotFound []string `json:"notFound"`
}
