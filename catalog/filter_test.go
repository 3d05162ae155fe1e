package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/stylematch/core"
)

func filterFixture(t *testing.T) *Catalog {
	t.Helper()
	cat, err := New([]core.CatalogItem{
		item("1", "Blue Jeans", "Jeans", core.GenderMen, 1, 0),
		item("2", "White Sneakers", "Casual Shoes", core.GenderMen, 0, 1),
		item("3", "Red Dress", "Dresses", core.GenderWomen, 1, 1),
		item("4", "Black Cap", "Caps", core.GenderUnisex, 1, 0),
		item("5", "Plain Tshirt", "Tshirts", core.GenderMen, 0, 1),
		item("6", "Leather Belt", "Belts", core.GenderMen),
	})
	require.NoError(t, err)
	return cat
}

func ids(items []core.CatalogItem) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].Id
	}
	return out
}

func TestFilter(t *testing.T) {
	cat := filterFixture(t)

	t.Run("gender, unisex and excluded category", func(t *testing.T) {
		v := Filter(cat, core.GenderMen, "Tshirts")
		assert.Equal(t, []string{"1", "2", "4", "6"}, ids(v.Items()))
		assert.Equal(t, 4, v.Len())
	})

	t.Run("candidates skip unembedded items", func(t *testing.T) {
		v := Filter(cat, core.GenderMen, "Tshirts")
		var got []string
		for _, c := range v.Candidates() {
			got = append(got, c.ID)
		}
		assert.Equal(t, []string{"1", "2", "4"}, got)
	})

	t.Run("women only sees women and unisex", func(t *testing.T) {
		v := Filter(cat, core.GenderWomen, "Dresses")
		assert.Equal(t, []string{"4"}, ids(v.Items()))
	})

	t.Run("nothing matches", func(t *testing.T) {
		v := Filter(cat, core.GenderGirls, "Caps")
		assert.Zero(t, v.Len())
		assert.Empty(t, v.Candidates())
	})

	t.Run("get is scoped to the view", func(t *testing.T) {
		v := Filter(cat, core.GenderMen, "Tshirts")
		_, ok := v.Get("3")
		assert.False(t, ok)
		it, ok := v.Get("4")
		require.True(t, ok)
		assert.Equal(t, "Black Cap", it.Description)
	})

	t.Run("source catalog untouched", func(t *testing.T) {
		before := cat.Items()
		v := Filter(cat, core.GenderMen, "Jeans")
		items := v.Items()
		items[0].Description = "mutated"
		assert.Equal(t, before, cat.Items())
	})

	t.Run("nil catalog", func(t *testing.T) {
		v := Filter(nil, core.GenderMen, "")
		assert.Zero(t, v.Len())
	})
}
