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


// Package catalog holds the pre-embedded product catalog and the operations
// that read it.
//
// A Catalog is built once, validated, and then only read. Filter narrows it
// to the items a single analysis may recommend: items for the target gender
// or Unisex, minus the category of the garment being matched. The result is
// a View that shares item data with its Catalog and never modifies it.
//
// Catalog rows are exchanged as CSV with the columns
//
//	id,productDisplayName,articleType,gender,embeddings
//
// where the embeddings cell is a bracketed, comma-separated list such as
// "[0.012, -0.3, 1e-05]". Values are written with the shortest decimal form
// that parses back to the same float32, so a write/read cycle is lossless.
//
// Loader reads a catalog file from disk and, when it is missing, downloads it
// from S3 first. A deterministic Sample catalog is available for demos.
package catalog
