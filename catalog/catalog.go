package catalog

import (
	"fmt"
	"slices"

	"github.com/poiesic/stylematch/core"
)

// Catalog is an ordered, read-only collection of catalog items keyed by id.
// Every embedded item has the same dimensionality. Items without an
// embedding are kept but never ranked.
//
// A Catalog is safe for concurrent reads. Callers must not modify the
// embedding slices of items obtained from it.
type Catalog struct {
	items     []core.CatalogItem
	index     map[string]int
	dimension int
}

// New validates items and builds a Catalog that preserves their order.
// It fails with core.ErrInvalidInput on an invalid item, a duplicate id
// (core.ErrDuplicateItemID) or mixed embedding sizes (core.ErrDimensionMismatch).
func New(items []core.CatalogItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]core.CatalogItem, len(items)),
		index: make(map[string]int, len(items)),
	}
	copy(c.items, items)

	for i := range c.items {
		item := &c.items[i]
		if err := core.ValidateCatalogItem(item); err != nil {
			return nil, err
		}
		if _, dup := c.index[item.Id]; dup {
			return nil, fmt.Errorf("%w: %w: %s", core.ErrInvalidInput, core.ErrDuplicateItemID, item.Id)
		}
		c.index[item.Id] = i

		if !item.HasEmbedding() {
			continue
		}
		if c.dimension == 0 {
			c.dimension = len(item.Embedding)
		} else if len(item.Embedding) != c.dimension {
			return nil, fmt.Errorf("item %s: %w", item.Id, core.DimensionMismatch(c.dimension, len(item.Embedding)))
		}
	}

	return c, nil
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Dimension returns the shared embedding size, or 0 if nothing is embedded.
func (c *Catalog) Dimension() int {
	return c.dimension
}

// Embedded returns how many items carry an embedding.
func (c *Catalog) Embedded() int {
	n := 0
	for i := range c.items {
		if c.items[i].HasEmbedding() {
			n++
		}
	}
	return n
}

// Items returns the items in catalog order. The slice is a copy.
func (c *Catalog) Items() []core.CatalogItem {
	return slices.Clone(c.items)
}

// Get returns the item with the given id.
func (c *Catalog) Get(id string) (core.CatalogItem, bool) {
	i, ok := c.index[id]
	if !ok {
		return core.CatalogItem{}, false
	}
	return c.items[i], true
}

// Categories returns the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range c.items {
		cat := c.items[i].Category
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	slices.Sort(out)
	return out
}

// Descriptions returns every item description in catalog order.
func (c *Catalog) Descriptions() []string {
	out := make([]string, len(c.items))
	for i := range c.items {
		out[i] = c.items[i].Description
	}
	return out
}
