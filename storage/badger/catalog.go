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


package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/storage"
)

// putChunkSize bounds how many items one implicit transaction writes, so
// large catalogs stay under badger's transaction size limit.
const putChunkSize = 256

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend     *Backend
	seq         *badger.Sequence
	ownsBackend bool
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a repository on an open backend. Closing the
// repository releases its sequence but leaves the backend open.
func NewCatalogRepository(backend *Backend) (*CatalogRepository, error) {
	seq, err := backend.GetSequence(catalogOrderSeq)
	if err != nil {
		return nil, err
	}
	return &CatalogRepository{backend: backend, seq: seq}, nil
}

// NewRepository opens a BadgerDB store at path. Closing the repository
// closes the database.
func NewRepository(path string) (storage.CatalogRepository, error) {
	return open(path, false)
}

// NewMemoryRepository creates an in-memory repository for testing.
func NewMemoryRepository() (storage.CatalogRepository, error) {
	return open("", true)
}

func open(path string, inMemory bool) (*CatalogRepository, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}
	repo, err := NewCatalogRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repo.ownsBackend = true
	return repo, nil
}

// Close releases the sequence, and the database when the repository opened it.
func (r *CatalogRepository) Close() error {
	err := r.seq.Release()
	if r.ownsBackend {
		err = errors.Join(err, r.backend.Close())
	}
	return err
}

// WithTransaction delegates to the backend.
func (r *CatalogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutItems inserts or replaces items.
func (r *CatalogRepository) PutItems(ctx context.Context, items ...core.CatalogItem) error {
	for i := range items {
		if err := core.ValidateCatalogItem(&items[i]); err != nil {
			return err
		}
	}

	if InTransaction(ctx) {
		return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
			return r.putItems(tx, items)
		}, true)
	}

	for lo := 0; lo < len(items); lo += putChunkSize {
		hi := min(lo+putChunkSize, len(items))
		err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
			return r.putItems(tx, items[lo:hi])
		}, true)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (r *CatalogRepository) putItems(tx *badger.Txn, items []core.CatalogItem) error {
	for i := range items {
		item := &items[i]
		key := makeItemKey(item.Id)

		seq, found, err := r.readSeq(tx, key)
		if err != nil {
			return err
		}
		if !found {
			seq, err = r.nextSeq()
			if err != nil {
				return err
			}
			if err := tx.Set(makeOrderKey(seq), []byte(item.Id)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, encodeItemValue(seq, storage.MarshalCatalogItem(item))); err != nil {
			return err
		}
	}
	return nil
}

func (r *CatalogRepository) nextSeq() (uint64, error) {
	next, err := r.seq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if next == 0 {
		return r.seq.Next()
	}
	return next, nil
}

// readSeq returns the insertion sequence of an existing item.
func (r *CatalogRepository) readSeq(tx *badger.Txn, key []byte) (uint64, bool, error) {
	entry, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	var seq uint64
	err = entry.Value(func(val []byte) error {
		s, _, ok := decodeItemValue(val)
		if !ok {
			return fmt.Errorf("%w: short value for %s", storage.ErrSerializationFailed, key)
		}
		seq = s
		return nil
	})
	return seq, true, err
}

// readItem reads an item by key. Returns nil, nil when it doesn't exist.
func (r *CatalogRepository) readItem(tx *badger.Txn, key []byte) (*core.CatalogItem, error) {
	entry, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var item *core.CatalogItem
	err = entry.Value(func(val []byte) error {
		_, data, ok := decodeItemValue(val)
		if !ok {
			return fmt.Errorf("%w: short value for %s", storage.ErrSerializationFailed, key)
		}
		var err error
		item, err = storage.UnmarshalCatalogItem(data)
		return err
	})
	return item, err
}

// GetItem retrieves a single item by id.
func (r *CatalogRepository) GetItem(ctx context.Context, id string) (*core.CatalogItem, error) {
	var result *core.CatalogItem
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = r.readItem(tx, makeItemKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: item %s", storage.ErrNotFound, id)
		}
		return nil
	}, false)
	return result, err
}

// GetItems retrieves the items that exist among ids.
func (r *CatalogRepository) GetItems(ctx context.Context, ids ...string) ([]core.CatalogItem, error) {
	results := make([]core.CatalogItem, 0, len(ids))
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := r.readItem(tx, makeItemKey(id))
			if err != nil {
				return err
			}
			if item != nil {
				results = append(results, *item)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteItems removes items and their order entries.
func (r *CatalogRepository) DeleteItems(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeItemKey(id)
			seq, found, err := r.readSeq(tx, key)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: item %s", storage.ErrNotFound, id)
			}
			if err := tx.Delete(makeOrderKey(seq)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	}, true)
}

// AllItems returns every item in insertion order.
func (r *CatalogRepository) AllItems(ctx context.Context) ([]core.CatalogItem, error) {
	var results []core.CatalogItem
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		return r.scan(ctx, tx, 0, 0, func(_ uint64, item *core.CatalogItem) {
			results = append(results, *item)
		})
	}, false)
	return results, err
}

// ListItems returns up to limit items after cursor in insertion order.
func (r *CatalogRepository) ListItems(ctx context.Context, cursor uint64, limit int) ([]core.CatalogItem, uint64, error) {
	if limit <= 0 {
		return nil, cursor, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	results := make([]core.CatalogItem, 0, limit)
	next := cursor
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		return r.scan(ctx, tx, cursor+1, limit, func(seq uint64, item *core.CatalogItem) {
			results = append(results, *item)
			next = seq
		})
	}, false)
	if err != nil {
		return nil, cursor, err
	}
	return results, next, nil
}

// scan walks the order index from seq start, resolving each entry to its
// item. A limit of 0 scans to the end.
func (r *CatalogRepository) scan(ctx context.Context, tx *badger.Txn, start uint64, limit int, fn func(seq uint64, item *core.CatalogItem)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(catalogOrderPrefix)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	seen := 0
	for iter.Seek(makeOrderKey(start)); iter.Valid(); iter.Next() {
		if limit > 0 && seen >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		entry := iter.Item()
		seq := seqFromOrderKey(entry.Key())
		id, err := entry.ValueCopy(nil)
		if err != nil {
			return err
		}

		item, err := r.readItem(tx, makeItemKey(string(id)))
		if err != nil {
			return err
		}
		if item == nil {
			r.backend.logger.Warn("dangling order entry", "seq", seq, "id", string(id))
			continue
		}
		fn(seq, item)
		seen++
	}
	return nil
}

// Count returns the number of stored items.
func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(catalogOrderPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// SaveMeta persists the snapshot metadata. A zero UpdatedAt is set to now.
func (r *CatalogRepository) SaveMeta(ctx context.Context, meta core.CatalogMeta) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		if meta.UpdatedAt.IsZero() {
			meta.UpdatedAt = time.Now().UTC()
		}
		return tx.Set([]byte(catalogMetaKey), storage.MarshalCatalogMeta(&meta))
	}, true)
}

// LoadMeta retrieves the snapshot metadata.
// Returns nil, nil if no metadata exists.
func (r *CatalogRepository) LoadMeta(ctx context.Context) (*core.CatalogMeta, error) {
	var meta *core.CatalogMeta
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		entry, err := tx.Get([]byte(catalogMetaKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		return entry.Value(func(val []byte) error {
			var unmarshalErr error
			meta, unmarshalErr = storage.UnmarshalCatalogMeta(val)
			return unmarshalErr
		})
	}, false)

	return meta, err
}
