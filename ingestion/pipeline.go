package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/vectorize"
)

const (
	// DefaultBatchSize is the number of texts sent per embedding request.
	DefaultBatchSize = 64

	// DefaultConcurrency is the number of batches in flight.
	DefaultConcurrency = 8

	// DefaultCostPer1KTokens is the text-embedding-3-large price in USD.
	DefaultCostPer1KTokens = 0.00013
)

// Vectorizer is the embedding front end the pipeline drives.
// *vectorize.Vectorizer satisfies it.
type Vectorizer interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Tokenizer() vectorize.Tokenizer
	MaxTokens() int
}

// CorpusStats describes a corpus before it is embedded.
type CorpusStats struct {
	Texts         int
	Tokens        int     // after truncation
	EstimatedCost float64 // USD
}

// Pipeline embeds corpora in parallel batches.
type Pipeline struct {
	vectorizer  Vectorizer
	batchSize   int
	concurrency int
	costPer1K   float64
	statsHook   func(CorpusStats)
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithBatchSize sets the default batch size used by EmbedCatalog.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		p.batchSize = size
		return nil
	}
}

// WithConcurrency sets the default worker count used by EmbedCatalog.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return ErrInvalidConcurrency
		}
		p.concurrency = n
		return nil
	}
}

// WithCostPer1KTokens sets the price used for the cost estimate.
func WithCostPer1KTokens(cost float64) Option {
	return func(p *Pipeline) error {
		if cost < 0 {
			return ErrInvalidCost
		}
		p.costPer1K = cost
		return nil
	}
}

// WithStatsHook registers a function that receives the corpus statistics
// before embedding starts.
func WithStatsHook(hook func(CorpusStats)) Option {
	return func(p *Pipeline) error {
		p.statsHook = hook
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a pipeline around vectorizer.
func NewPipeline(vectorizer Vectorizer, opts ...Option) (*Pipeline, error) {
	if vectorizer == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, ErrVectorizerRequired)
	}

	p := &Pipeline{
		vectorizer:  vectorizer,
		batchSize:   DefaultBatchSize,
		concurrency: DefaultConcurrency,
		costPer1K:   DefaultCostPer1KTokens,
		logger:      slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
		}
	}
	return p, nil
}

// Stats computes the corpus statistics without embedding anything.
func (p *Pipeline) Stats(corpus []string) CorpusStats {
	return EstimateCorpus(p.vectorizer.Tokenizer(), p.vectorizer.MaxTokens(), p.costPer1K, corpus)
}

// EstimateCorpus counts the tokens corpus would be sent as, each text capped
// at maxTokens, and prices them at costPer1K USD per thousand tokens.
func EstimateCorpus(tok vectorize.Tokenizer, maxTokens int, costPer1K float64, corpus []string) CorpusStats {
	tokens := vectorize.CountTokens(tok, corpus, maxTokens)
	return CorpusStats{
		Texts:         len(corpus),
		Tokens:        tokens,
		EstimatedCost: float64(tokens) / 1000 * costPer1K,
	}
}

// EmbedCorpus embeds corpus in contiguous batches of batchSize using at most
// concurrency workers. The result has one vector per text in input order.
// The first batch error cancels the remaining work and is returned.
func (p *Pipeline) EmbedCorpus(ctx context.Context, corpus []string, batchSize, concurrency int) ([][]float32, error) {
	switch {
	case len(corpus) == 0:
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidInput, ErrEmptyCorpus)
	case batchSize < 1:
		return nil, fmt.Errorf("%w: %w: %d", core.ErrInvalidInput, ErrInvalidBatchSize, batchSize)
	case concurrency < 1:
		return nil, fmt.Errorf("%w: %w: %d", core.ErrInvalidInput, ErrInvalidConcurrency, concurrency)
	}

	stats := p.Stats(corpus)
	p.logger.Info("embedding corpus",
		"texts", stats.Texts,
		"tokens", stats.Tokens,
		"est_cost_usd", fmt.Sprintf("%.4f", stats.EstimatedCost),
		"batch_size", batchSize,
		"concurrency", concurrency)
	if p.statsHook != nil {
		p.statsHook(stats)
	}

	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	start := time.Now()
	out := make([][]float32, len(corpus))
	batches := 0
	for lo := 0; lo < len(corpus); lo += batchSize {
		hi := min(lo+batchSize, len(corpus))
		batches++

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			vectors, err := p.vectorizer.Embed(ctx, corpus[lo:hi])
			if err != nil {
				fail(fmt.Errorf("batch %d-%d: %w", lo, hi, err))
				return
			}
			if len(vectors) != hi-lo {
				fail(fmt.Errorf("%w: batch %d-%d returned %d vectors", core.ErrInvalidInput, lo, hi, len(vectors)))
				return
			}
			copy(out[lo:hi], vectors)
			p.logger.Debug("batch embedded", "from", lo, "to", hi)
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		p.logger.Error("corpus embedding failed", "err", firstErr)
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Info("corpus embedded", "texts", len(corpus), "batches", batches, "elapsed", time.Since(start))
	return out, nil
}
