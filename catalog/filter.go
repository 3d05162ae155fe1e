package catalog

import (
	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/rank"
)

// View is a read-only subset of a Catalog in catalog order.
type View struct {
	items      []core.CatalogItem
	index      map[string]int
	candidates []rank.Candidate
}

// Filter keeps the items whose gender is targetGender or Unisex and whose
// category differs from excludedCategory. The source catalog is not modified.
func Filter(cat *Catalog, targetGender core.Gender, excludedCategory string) *View {
	v := &View{index: make(map[string]int)}
	if cat == nil {
		return v
	}

	for i := range cat.items {
		item := cat.items[i]
		if item.Gender != targetGender && item.Gender != core.GenderUnisex {
			continue
		}
		if item.Category == excludedCategory {
			continue
		}
		v.index[item.Id] = len(v.items)
		v.items = append(v.items, item)
		if item.HasEmbedding() {
			v.candidates = append(v.candidates, rank.Candidate{ID: item.Id, Vector: item.Embedding})
		}
	}
	return v
}

// Len returns the number of items in the view.
func (v *View) Len() int {
	return len(v.items)
}

// Items returns a copy of the items in the view.
func (v *View) Items() []core.CatalogItem {
	out := make([]core.CatalogItem, len(v.items))
	copy(out, v.items)
	return out
}

// Get returns the item with the given id if it is part of the view.
func (v *View) Get(id string) (core.CatalogItem, bool) {
	i, ok := v.index[id]
	if !ok {
		return core.CatalogItem{}, false
	}
	return v.items[i], true
}

// Candidates returns the embedded items of the view, ready for ranking.
// The returned slice must not be modified.
func (v *View) Candidates() []rank.Candidate {
	return v.candidates
}
