package reembed

import (
	"context"
	"fmt"

	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/rank"
	"github.com/poiesic/stylematch/storage"
)

// Vectorizer embeds texts. *vectorize.Vectorizer satisfies it; it retries
// transient failures itself.
type Vectorizer interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// BatchProcessor re-embeds the stale items of one batch.
type BatchProcessor struct {
	repo       storage.CatalogRepository
	vectorizer Vectorizer
	dimensions int
	force      bool
	normalize  bool
}

// NewBatchProcessor creates a processor. A dimensions of 0 disables the
// vector size check.
func NewBatchProcessor(repo storage.CatalogRepository, vectorizer Vectorizer, dimensions int, force, normalize bool) *BatchProcessor {
	return &BatchProcessor{
		repo:       repo,
		vectorizer: vectorizer,
		dimensions: dimensions,
		force:      force,
		normalize:  normalize,
	}
}

// NeedsEmbedding reports whether item must be (re-)embedded.
func (bp *BatchProcessor) NeedsEmbedding(item *core.CatalogItem) bool {
	if bp.force || item.IsStale() {
		return true
	}
	return bp.dimensions > 0 && len(item.Embedding) != bp.dimensions
}

// Process embeds the items that need it and writes them back. It returns
// how many items were updated and the size of the vectors written, which is
// 0 when nothing was written.
func (bp *BatchProcessor) Process(ctx context.Context, items []core.CatalogItem) (updated, dims int, err error) {
	var stale []core.CatalogItem
	for i := range items {
		if bp.NeedsEmbedding(&items[i]) {
			stale = append(stale, items[i])
		}
	}
	if len(stale) == 0 {
		return 0, 0, nil
	}

	texts := make([]string, len(stale))
	for i := range stale {
		texts[i] = stale[i].Description
	}

	vectors, err := bp.vectorizer.Embed(ctx, texts)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(vectors) != len(stale) {
		return 0, 0, fmt.Errorf("%w: embedding count mismatch: expected %d, got %d", core.ErrInvalidInput, len(stale), len(vectors))
	}

	for i := range stale {
		vec := vectors[i]
		if bp.dimensions > 0 && len(vec) != bp.dimensions {
			return 0, 0, fmt.Errorf("item %s: %w", stale[i].Id, core.DimensionMismatch(bp.dimensions, len(vec)))
		}
		if bp.normalize {
			vec = rank.Normalize(vec)
		}
		stale[i].Embedding = vec
		stale[i].DescriptionHash = core.IDFromContent(stale[i].Description)
	}

	if err := bp.repo.PutItems(ctx, stale...); err != nil {
		return 0, 0, fmt.Errorf("failed to update items: %w", err)
	}
	return len(stale), len(stale[0].Embedding), nil
}
