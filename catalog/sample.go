package catalog

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/poiesic/stylematch/core"
)

var (
	sampleColours = []string{"Black", "White", "Navy Blue", "Grey", "Red", "Olive", "Beige", "Brown", "Pink", "Teal"}
	sampleStyles  = []string{"Solid", "Striped", "Printed", "Checked", "Washed", "Slim Fit", "Regular Fit", "Textured"}
	sampleBrands  = []string{"Nike", "Puma", "Roadster", "Levis", "Mango", "Fossil", "Wrangler", "Vero Moda"}

	// sampleCategories maps each category to the genders it is sold for.
	sampleCategories = []struct {
		name    string
		genders []core.Gender
	}{
		{"Tshirts", []core.Gender{core.GenderMen, core.GenderWomen, core.GenderBoys, core.GenderGirls}},
		{"Shirts", []core.Gender{core.GenderMen, core.GenderWomen, core.GenderBoys}},
		{"Jeans", []core.Gender{core.GenderMen, core.GenderWomen}},
		{"Trousers", []core.Gender{core.GenderMen, core.GenderWomen}},
		{"Shorts", []core.Gender{core.GenderMen, core.GenderWomen, core.GenderBoys, core.GenderGirls}},
		{"Skirts", []core.Gender{core.GenderWomen, core.GenderGirls}},
		{"Dresses", []core.Gender{core.GenderWomen, core.GenderGirls}},
		{"Jackets", []core.Gender{core.GenderMen, core.GenderWomen}},
		{"Sweaters", []core.Gender{core.GenderMen, core.GenderWomen}},
		{"Casual Shoes", []core.Gender{core.GenderMen, core.GenderWomen, core.GenderUnisex}},
		{"Sports Shoes", []core.Gender{core.GenderMen, core.GenderWomen}},
		{"Sandals", []core.Gender{core.GenderMen, core.GenderWomen}},
		{"Watches", []core.Gender{core.GenderMen, core.GenderWomen, core.GenderUnisex}},
		{"Belts", []core.Gender{core.GenderMen, core.GenderWomen}},
		{"Handbags", []core.Gender{core.GenderWomen}},
		{"Backpacks", []core.Gender{core.GenderUnisex}},
		{"Caps", []core.Gender{core.GenderUnisex}},
		{"Sunglasses", []core.Gender{core.GenderMen, core.GenderWomen, core.GenderUnisex}},
	}
)

// SampleCategories returns the categories Sample draws from.
func SampleCategories() []string {
	out := make([]string, len(sampleCategories))
	for i, c := range sampleCategories {
		out[i] = c.name
	}
	return out
}

// Sample generates n catalog items from seed. The same arguments always
// produce the same items. When dims > 0 every item gets a random unit
// vector of that size; the vectors carry no semantic meaning.
func Sample(n, dims int, seed uint64) []core.CatalogItem {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	items := make([]core.CatalogItem, n)

	for i := range items {
		cat := sampleCategories[rng.IntN(len(sampleCategories))]
		gender := cat.genders[rng.IntN(len(cat.genders))]
		desc := fmt.Sprintf("%s %s %s %s %s",
			sampleBrands[rng.IntN(len(sampleBrands))],
			gender,
			sampleColours[rng.IntN(len(sampleColours))],
			sampleStyles[rng.IntN(len(sampleStyles))],
			cat.name,
		)

		items[i] = core.CatalogItem{
			Id:          fmt.Sprintf("%d", 10000+i),
			Description: desc,
			Category:    cat.name,
			Gender:      gender,
		}
		if dims > 0 {
			items[i].Embedding = randomUnitVector(rng, dims)
			items[i].DescriptionHash = core.IDFromContent(desc)
		}
	}
	return items
}

func randomUnitVector(rng *rand.Rand, dims int) []float32 {
	v := make([]float32, dims)
	var sum float64
	for i := range v {
		f := rng.NormFloat64()
		v[i] = float32(f)
		sum += f * f
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		v[0] = 1
		return v
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}
