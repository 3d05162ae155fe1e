package core

import (
	"errors"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "White Canvas Sneakers",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "Women's Black Skinny Jeans with a high waist and ankle length cut",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("Blue Denim Jacket")
	id2 := IDFromContent("Blue Denim Jackets")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		input   string
		want    Gender
		wantErr bool
	}{
		{input: "Men", want: GenderMen},
		{input: "women", want: GenderWomen},
		{input: " BOYS ", want: GenderBoys},
		{input: "Girls", want: GenderGirls},
		{input: "unisex", want: GenderUnisex},
		{input: "", wantErr: true},
		{input: "Kids", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGender(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGender) {
					t.Errorf("ParseGender(%q) error = %v, want ErrInvalidGender", tt.input, err)
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("ParseGender(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGender(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseGender(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCatalogItem_IsStale(t *testing.T) {
	desc := "Gray Hoodie"

	tests := []struct {
		name string
		item CatalogItem
		want bool
	}{
		{
			name: "no embedding",
			item: CatalogItem{Description: desc, DescriptionHash: IDFromContent(desc)},
			want: true,
		},
		{
			name: "hash matches",
			item: CatalogItem{Description: desc, Embedding: []float32{1}, DescriptionHash: IDFromContent(desc)},
			want: false,
		},
		{
			name: "description changed",
			item: CatalogItem{Description: "Grey Zip Hoodie", Embedding: []float32{1}, DescriptionHash: IDFromContent(desc)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.IsStale(); got != tt.want {
				t.Errorf("IsStale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerdict_AnswerString(t *testing.T) {
	if got := (Verdict{Answer: true}).AnswerString(); got != "yes" {
		t.Errorf("AnswerString() = %q, want yes", got)
	}
	if got := (Verdict{}).AnswerString(); got != "no" {
		t.Errorf("AnswerString() = %q, want no", got)
	}
}

func TestDimensionMismatch(t *testing.T) {
	err := DimensionMismatch(3, 2)
	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("DimensionMismatch() = %v, want ErrInvalidInput and ErrDimensionMismatch", err)
	}
}
