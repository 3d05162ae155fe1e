package storage

import (
	"testing"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/stylematch/core"
)

func TestCatalogItemSerialization(t *testing.T) {
	tests := []struct {
		name string
		item core.CatalogItem
	}{
		{
			name: "embedded item",
			item: core.CatalogItem{
				Id:              "15970",
				Description:     "Turtle Check Men Navy Blue Shirt",
				Category:        "Shirts",
				Gender:          core.GenderMen,
				Embedding:       []float32{0.011, -0.2, 0.75},
				DescriptionHash: core.IDFromContent("Turtle Check Men Navy Blue Shirt"),
			},
		},
		{
			name: "raw item",
			item: core.CatalogItem{Id: "39386", Description: "Peter England Unisex Cap", Category: "Caps", Gender: core.GenderUnisex},
		},
		{
			name: "unicode description",
			item: core.CatalogItem{Id: "x", Description: "Café crème – ñandú", Category: "Tops", Gender: core.GenderWomen},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalCatalogItem(&tt.item)
			got, err := UnmarshalCatalogItem(data)
			require.NoError(t, err)
			assert.Equal(t, tt.item, *got)
		})
	}
}

func TestUnmarshalCatalogItem_Corrupt(t *testing.T) {
	item := core.CatalogItem{Id: "1", Description: "Blue Jeans", Category: "Jeans", Gender: core.GenderMen, Embedding: make([]float32, 16)}
	data := MarshalCatalogItem(&item)

	_, err := UnmarshalCatalogItem(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalCatalogItem(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestUnmarshalCatalogItem_OversizedEmbeddingLength(t *testing.T) {
	bs := make([]byte, 64)
	n := ord.String.Marshal("1", bs)
	n += ord.String.Marshal("Blue Jeans", bs[n:])
	n += ord.String.Marshal("Jeans", bs[n:])
	n += ord.String.Marshal(string(core.GenderMen), bs[n:])
	n += varint.PositiveInt.Marshal(1<<62, bs[n:])

	var err error
	require.NotPanics(t, func() {
		_, err = UnmarshalCatalogItem(bs[:n])
	})
	assert.ErrorIs(t, err, ErrSerializationFailed)
	assert.ErrorIs(t, err, core.ErrMalformedRecord)
}

func TestCatalogMetaSerialization(t *testing.T) {
	meta := core.CatalogMeta{
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
		Items:      12,
		UpdatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	got, err := UnmarshalCatalogMeta(MarshalCatalogMeta(&meta))
	require.NoError(t, err)
	assert.Equal(t, meta, *got)
}
