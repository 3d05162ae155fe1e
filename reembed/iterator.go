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


package reembed

import (
	"context"

	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/storage"
)

const (
	// DefaultBatchSize is the default number of items to fetch in each batch
	DefaultBatchSize = 100
)

// ItemIterator iterates over all catalog items in batches.
type ItemIterator struct {
	repo      storage.CatalogRepository
	batchSize int
}

// NewItemIterator creates a new item iterator.
// A batchSize <= 0 uses DefaultBatchSize.
func NewItemIterator(repo storage.CatalogRepository, batchSize int) *ItemIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ItemIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of items in insertion order.
// Iteration stops on first error from fn or when all items are processed.
// Each batch is read in its own transaction, so fn may write to the
// repository. Context cancellation is checked between batches.
func (it *ItemIterator) ForEach(ctx context.Context, fn func([]core.CatalogItem) error) error {
	var cursor uint64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, next, err := it.repo.ListItems(ctx, cursor, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}
		cursor = next
	}
}
