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


package storage

import (
	"fmt"

	"github.com/poiesic/stylematch/core"
)

// MarshalCatalogItem serializes a CatalogItem to bytes.
func MarshalCatalogItem(item *core.CatalogItem) []byte {
	buf := make([]byte, core.CatalogItemMUS.Size(*item))
	core.CatalogItemMUS.Marshal(*item, buf)
	return buf
}

// UnmarshalCatalogItem deserializes a CatalogItem from bytes.
func UnmarshalCatalogItem(data []byte) (*core.CatalogItem, error) {
	item, _, err := core.CatalogItemMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog item: %w", ErrSerializationFailed, err)
	}
	// A bare item decodes with an empty vector; keep it nil like a freshly loaded one.
	if len(item.Embedding) == 0 {
		item.Embedding = nil
	}
	return &item, nil
}

// MarshalCatalogMeta serializes a CatalogMeta to bytes.
func MarshalCatalogMeta(meta *core.CatalogMeta) []byte {
	buf := make([]byte, core.CatalogMetaMUS.Size(*meta))
	core.CatalogMetaMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalCatalogMeta deserializes a CatalogMeta from bytes.
func UnmarshalCatalogMeta(data []byte) (*core.CatalogMeta, error) {
	meta, _, err := core.CatalogMetaMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog meta: %w", ErrSerializationFailed, err)
	}
	return &meta, nil
}
