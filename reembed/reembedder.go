package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/storage"
)

// Config controls a reembedding run.
type Config struct {
	// BatchSize is the number of items read and embedded together
	BatchSize int

	// ReportInterval is how often to report progress (number of items)
	ReportInterval int

	// Dimensions is the expected vector size. 0 uses the stored metadata,
	// if any, and otherwise skips the size check.
	Dimensions int

	// Model is recorded in the catalog metadata after the run
	Model string

	// Force re-embeds every item regardless of staleness
	Force bool

	// Normalize scales new vectors to unit length
	Normalize bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
	}
}

// Option configures a Reembedder.
type Option func(*Reembedder) error

// WithConfig replaces the whole configuration.
func WithConfig(cfg *Config) Option {
	return func(r *Reembedder) error {
		if cfg == nil {
			cfg = DefaultConfig()
		}
		if cfg.BatchSize <= 0 {
			return ErrInvalidBatchSize
		}
		c := *cfg
		r.config = &c
		return nil
	}
}

// WithProgress sets where progress is written. Default is io.Discard.
func WithProgress(w io.Writer) Option {
	return func(r *Reembedder) error {
		if w == nil {
			w = io.Discard
		}
		r.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reembedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// Result summarises a run.
type Result struct {
	Scanned int
	Updated int
	Elapsed time.Duration
}

// Reembedder updates stale embeddings in a catalog repository.
type Reembedder struct {
	repo       storage.CatalogRepository
	vectorizer Vectorizer
	config     *Config
	progress   io.Writer
	logger     *slog.Logger
}

// NewReembedder creates a Reembedder.
func NewReembedder(repo storage.CatalogRepository, vectorizer Vectorizer, opts ...Option) (*Reembedder, error) {
	if repo == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, ErrRepositoryRequired)
	}
	if vectorizer == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, ErrVectorizerRequired)
	}

	r := &Reembedder{
		repo:       repo,
		vectorizer: vectorizer,
		config:     DefaultConfig(),
		progress:   io.Discard,
		logger:     slog.Default().With("component", "reembed"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
		}
	}
	return r, nil
}

// Run scans the whole repository and re-embeds stale items. On success the
// catalog metadata is updated with the model, dimensions and item count.
func (r *Reembedder) Run(ctx context.Context) (Result, error) {
	var result Result

	total, err := r.repo.Count(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to count items: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No items found in store (0 items)\n")
		return result, nil
	}

	meta, err := r.repo.LoadMeta(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load catalog metadata: %w", err)
	}
	dimensions := r.config.Dimensions
	if dimensions == 0 && meta != nil && !r.config.Force {
		dimensions = meta.Dimensions
	}

	fmt.Fprintf(r.progress, "Checking %d items (batch size: %d)\n", total, r.config.BatchSize)
	r.logger.Info("reembed started", "items", total, "dimensions", dimensions, "force", r.config.Force)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processor := NewBatchProcessor(r.repo, r.vectorizer, dimensions, r.config.Force, r.config.Normalize)
	// Vectors written by this run decide the stored dimension.
	var writtenDims, seenDims int
	err = NewItemIterator(r.repo, r.config.BatchSize).ForEach(ctx, func(items []core.CatalogItem) error {
		updated, dims, err := processor.Process(ctx, items)
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		if writtenDims == 0 && updated > 0 {
			writtenDims = dims
		}
		if seenDims == 0 {
			for i := range items {
				if !processor.NeedsEmbedding(&items[i]) && items[i].HasEmbedding() {
					seenDims = len(items[i].Embedding)
					break
				}
			}
		}
		result.Scanned += len(items)
		result.Updated += updated
		tracker.Add(len(items), updated)
		r.logger.Debug("batch processed", "items", len(items), "updated", updated)
		return nil
	})
	if err != nil {
		r.logger.Error("reembed failed", "scanned", result.Scanned, "updated", result.Updated, "err", err)
		return result, err
	}

	tracker.Finish()
	result.Elapsed = tracker.Elapsed()

	if result.Updated > 0 || meta == nil {
		metaDims := writtenDims
		if metaDims == 0 {
			metaDims = dimensions
		}
		if metaDims == 0 {
			metaDims = seenDims
		}
		if metaDims == 0 {
			metaDims = r.detectDimensions(ctx)
		}
		model := r.config.Model
		if model == "" && meta != nil {
			model = meta.Model
		}
		err := r.repo.SaveMeta(ctx, core.CatalogMeta{
			Model:      model,
			Dimensions: metaDims,
			Items:      result.Scanned,
		})
		if err != nil {
			return result, fmt.Errorf("failed to save catalog metadata: %w", err)
		}
	}

	fmt.Fprintf(r.progress, "Reembedding complete. Checked %d items, re-embedded %d in %v\n",
		result.Scanned, result.Updated, result.Elapsed.Round(time.Millisecond))
	r.logger.Info("reembed complete", "scanned", result.Scanned, "updated", result.Updated, "elapsed", result.Elapsed)
	return result, nil
}

// detectDimensions returns the vector size of the first embedded item.
func (r *Reembedder) detectDimensions(ctx context.Context) int {
	items, _, err := r.repo.ListItems(ctx, 0, 1)
	if err != nil || len(items) == 0 {
		return 0
	}
	return len(items[0].Embedding)
}
