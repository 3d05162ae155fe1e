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


// Package storage provides the storage abstraction layer for stylematch.
//
// The store holds an embedded catalog snapshot between the offline embedding
// run and serving. It is the source the reembed package updates in place and
// the CSV export reads from.
//
// # Constructor Return Type Pattern
//
// Public constructors return the interface type:
//
//	repo, err := badger.NewRepository(path)  // returns storage.CatalogRepository
//
// Internal constructors may return concrete types since they are only used
// within the implementation package.
//
// # Ordering
//
// Items keep the order in which they were first stored. Replacing an item
// keeps its position; deleting and re-adding it moves it to the end.
// AllItems and ListItems return items in that order.
//
// # Transactions
//
// WithTransaction runs fn with a context carrying a read-write transaction.
// Repository calls made with that context join the transaction, and the
// whole set of changes commits when fn returns nil:
//
//	err := repo.WithTransaction(ctx, func(ctx context.Context) error {
//	    if err := repo.DeleteItems(ctx, "15970"); err != nil {
//	        return err
//	    }
//	    return repo.PutItems(ctx, replacement)
//	})
//
// # Thread Safety
//
// Implementations are safe for concurrent use. Writes follow a single-writer
// discipline: run one embedding or reembed job against a store at a time.
package storage
