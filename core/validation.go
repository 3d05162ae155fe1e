// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateCatalogItem validates a CatalogItem according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Description must not be blank
//   - Category must not be blank
//   - Gender must be one of the known values
//
// NOT validated (populated by the embedding pipeline):
//   - Embedding (can be empty until embedded)
//   - DescriptionHash
func ValidateCatalogItem(item *CatalogItem) error {
	if item == nil {
		return fmt.Errorf("%w: %w: item is nil", ErrInvalidInput, ErrInvalidCatalogItem)
	}

	if item.Id == "" {
		return fmt.Errorf("%w: %w: %w", ErrInvalidInput, ErrInvalidCatalogItem, ErrEmptyItemID)
	}

	if strings.TrimSpace(item.Description) == "" {
		return fmt.Errorf("%w: %w: %w (id %s)", ErrInvalidInput, ErrInvalidCatalogItem, ErrEmptyDescription, item.Id)
	}

	if strings.TrimSpace(item.Category) == "" {
		return fmt.Errorf("%w: %w: %w (id %s)", ErrInvalidInput, ErrInvalidCatalogItem, ErrEmptyCategory, item.Id)
	}

	if err := ValidateGender(item.Gender); err != nil {
		return fmt.Errorf("%w: %w (id %s)", ErrInvalidCatalogItem, err, item.Id)
	}

	return nil
}

// ValidateGender validates that a Gender has a valid value.
func ValidateGender(g Gender) error {
	for _, known := range Genders {
		if g == known {
			return nil
		}
	}
	return invalidGender(string(g))
}

// MaxEmbeddingDimensions bounds the vector length accepted when decoding a stored item.
const MaxEmbeddingDimensions = 1 << 16

// ValidateEmbeddingLength rejects a decoded embedding length before its
// slice is allocated.
func ValidateEmbeddingLength(length int) error {
	if length > MaxEmbeddingDimensions {
		return fmt.Errorf("%w: embedding length %d exceeds %d", ErrMalformedRecord, length, MaxEmbeddingDimensions)
	}
	return nil
}

// ValidateCaption checks that a Caption carries a usable gender and category.
// An empty Items list is valid and simply yields no matches.
func ValidateCaption(c *Caption) error {
	if c == nil {
		return fmt.Errorf("%w: caption is nil", ErrInvalidInput)
	}
	if err := ValidateGender(c.Gender); err != nil {
		return err
	}
	if strings.TrimSpace(c.Category) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrEmptyCategory)
	}
	return nil
}
