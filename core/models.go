package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Gender is the audience a catalog item is made for.
type Gender string

const (
	GenderMen    Gender = "Men"
	GenderWomen  Gender = "Women"
	GenderBoys   Gender = "Boys"
	GenderGirls  Gender = "Girls"
	GenderUnisex Gender = "Unisex"
)

// Genders lists every valid Gender in canonical order.
var Genders = []Gender{GenderMen, GenderWomen, GenderBoys, GenderGirls, GenderUnisex}

// ParseGender converts s to a Gender, ignoring case and surrounding space.
func ParseGender(s string) (Gender, error) {
	trimmed := strings.TrimSpace(s)
	for _, g := range Genders {
		if strings.EqualFold(trimmed, string(g)) {
			return g, nil
		}
	}
	return "", invalidGender(s)
}

// CatalogItem is a single product in the recommendation catalog.
type CatalogItem struct {
	Id              string
	Description     string
	Category        string
	Gender          Gender
	Embedding       []float32 // Empty until the item has been embedded
	DescriptionHash ID        // IDFromContent(Description) at the time Embedding was computed
}

// HasEmbedding reports whether the item carries a vector.
func (c *CatalogItem) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// IsStale reports whether the embedding no longer reflects the description.
func (c *CatalogItem) IsStale() bool {
	return !c.HasEmbedding() || c.DescriptionHash != IDFromContent(c.Description)
}

// CatalogMeta describes the catalog snapshot held by a store.
type CatalogMeta struct {
	Model      string // Embedding model that produced the vectors
	Dimensions int
	Items      int
	UpdatedAt  time.Time
}

// Query is one item description to match plus the constraints of the analysis it came from.
type Query struct {
	Text             string
	TargetGender     Gender
	ExcludedCategory string
}

// ScoredCandidate is a transient ranking result.
type ScoredCandidate struct {
	ItemId string
	Score  float32
}

// MatchResult is a catalog item returned for one query text.
type MatchResult struct {
	Query string
	Item  CatalogItem
	Score float32
}

// Caption is the structured description a vision model produces for an uploaded garment.
type Caption struct {
	Items    []string `json:"items"`
	Category string   `json:"category"`
	Gender   Gender   `json:"gender"`
}

// Verdict is the outcome of checking whether two garments work together.
type Verdict struct {
	Answer bool
	Reason string
}

// AnswerString renders the verdict answer as "yes" or "no".
func (v Verdict) AnswerString() string {
	if v.Answer {
		return "yes"
	}
	return "no"
}
