package storage

import (
	"context"

	"github.com/poiesic/stylematch/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// Repository calls made with the context passed to fn join the transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// CatalogRepository stores catalog items and the metadata of the snapshot.
type CatalogRepository interface {
	Repository

	// PutItems inserts or replaces items by Id. New items are appended to
	// the insertion order; replaced items keep their position.
	// Items are validated with core.ValidateCatalogItem first.
	PutItems(ctx context.Context, items ...core.CatalogItem) error

	// GetItem retrieves a single item.
	// Returns ErrNotFound if the item doesn't exist.
	GetItem(ctx context.Context, id string) (*core.CatalogItem, error)

	// GetItems retrieves multiple items in the order of ids.
	// Returns only the items that exist (no error for missing items).
	GetItems(ctx context.Context, ids ...string) ([]core.CatalogItem, error)

	// DeleteItems removes items by id.
	// Returns ErrNotFound if any item doesn't exist.
	DeleteItems(ctx context.Context, ids ...string) error

	// AllItems returns every item in insertion order.
	AllItems(ctx context.Context) ([]core.CatalogItem, error)

	// ListItems returns up to limit items that follow cursor in insertion
	// order, and the cursor to pass to the next call. A zero cursor starts
	// from the beginning. An empty result means the end was reached.
	ListItems(ctx context.Context, cursor uint64, limit int) ([]core.CatalogItem, uint64, error)

	// Count returns the number of stored items.
	Count(ctx context.Context) (int, error)

	// SaveMeta stores the snapshot metadata, replacing any previous value.
	SaveMeta(ctx context.Context, meta core.CatalogMeta) error

	// LoadMeta retrieves the snapshot metadata.
	// Returns nil, nil if none was saved.
	LoadMeta(ctx context.Context) (*core.CatalogMeta, error)
}
