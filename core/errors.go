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
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the engine wraps one of these.
var (
	// ErrTransientService indicates a remote call kept failing after its retry budget was spent.
	ErrTransientService = errors.New("transient service error")

	// ErrInvalidInput indicates malformed input. It is never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates a missing or invalid setting.
	ErrConfiguration = errors.New("configuration error")
)

// Domain validation errors
var (
	// ErrInvalidCatalogItem indicates a CatalogItem failed validation.
	ErrInvalidCatalogItem = errors.New("invalid catalog item")

	// ErrEmptyItemID indicates the Id field is empty.
	ErrEmptyItemID = errors.New("item id cannot be empty")

	// ErrEmptyDescription indicates the Description field is empty.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrEmptyCategory indicates the Category field is empty.
	ErrEmptyCategory = errors.New("category cannot be empty")

	// ErrInvalidGender indicates a value outside Men, Women, Boys, Girls and Unisex.
	ErrInvalidGender = errors.New("invalid gender")

	// ErrDuplicateItemID indicates two catalog items share an id.
	ErrDuplicateItemID = errors.New("duplicate item id")

	// ErrDimensionMismatch indicates vectors of different lengths were compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrMalformedRecord indicates a serialized record could not be decoded.
	ErrMalformedRecord = errors.New("malformed record")
)

func invalidGender(value string) error {
	return fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidGender, value)
}

// DimensionMismatch builds an ErrInvalidInput error describing two incompatible vector lengths.
func DimensionMismatch(want, got int) error {
	return fmt.Errorf("%w: %w: expected %d, received %d", ErrInvalidInput, ErrDimensionMismatch, want, got)
}
