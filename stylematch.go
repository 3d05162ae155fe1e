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


package stylematch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/stylematch/ai"
	"github.com/poiesic/stylematch/ai/openai"
	"github.com/poiesic/stylematch/catalog"
	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/ingestion"
	"github.com/poiesic/stylematch/match"
	"github.com/poiesic/stylematch/reembed"
	"github.com/poiesic/stylematch/storage"
	"github.com/poiesic/stylematch/storage/badger"
	"github.com/poiesic/stylematch/vectorize"
)

// Engine wires the catalog, the snapshot store and the AI services together.
type Engine struct {
	repo       storage.CatalogRepository
	ownsRepo   bool
	provider   ai.AIProvider
	vectorizer *vectorize.Vectorizer
	matcher    *match.Matcher
	catalog    *catalog.Catalog
	model      string
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions) error

type engineOptions struct {
	aiConfig       *ai.Config
	provider       ai.AIProvider
	storePath      string
	inMemory       bool
	repo           storage.CatalogRepository
	loader         *catalog.Loader
	catalog        *catalog.Catalog
	vectorizerOpts []vectorize.Option
	matchOpts      []match.Option
	logger         *slog.Logger
}

// WithAIConfig sets the configuration used to build the OpenAI provider.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) error {
		if cfg == nil {
			return errors.New("ai config is nil")
		}
		o.aiConfig = cfg
		return nil
	}
}

// WithProvider uses an existing provider instead of building one.
// The engine takes ownership and closes it.
func WithProvider(p ai.AIProvider) EngineOption {
	return func(o *engineOptions) error {
		o.provider = p
		return nil
	}
}

// WithStore opens the badger snapshot store at path.
func WithStore(path string) EngineOption {
	return func(o *engineOptions) error {
		o.storePath = path
		o.inMemory = false
		return nil
	}
}

// WithMemoryStore keeps the snapshot store in memory.
func WithMemoryStore() EngineOption {
	return func(o *engineOptions) error {
		o.storePath = ""
		o.inMemory = true
		return nil
	}
}

// WithRepository uses an already open repository. The caller keeps
// ownership of it.
func WithRepository(repo storage.CatalogRepository) EngineOption {
	return func(o *engineOptions) error {
		o.repo = repo
		return nil
	}
}

// WithLoader loads the catalog from CSV when the store holds none.
func WithLoader(l *catalog.Loader) EngineOption {
	return func(o *engineOptions) error {
		o.loader = l
		return nil
	}
}

// WithCatalog serves cat as is. Store and loader are not consulted.
func WithCatalog(cat *catalog.Catalog) EngineOption {
	return func(o *engineOptions) error {
		o.catalog = cat
		return nil
	}
}

// WithVectorizerOptions passes options to the query vectorizer.
func WithVectorizerOptions(opts ...vectorize.Option) EngineOption {
	return func(o *engineOptions) error {
		o.vectorizerOpts = append(o.vectorizerOpts, opts...)
		return nil
	}
}

// WithMatchOptions passes options to the matcher.
func WithMatchOptions(opts ...match.Option) EngineOption {
	return func(o *engineOptions) error {
		o.matchOpts = append(o.matchOpts, opts...)
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewEngine opens the store, builds the provider and loads the catalog.
//
// The catalog comes from WithCatalog, else from the store when it holds
// items, else from the loader. A catalog read through the loader is written
// to the store so the next start does not need the CSV.
func NewEngine(ctx context.Context, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
		}
	}

	e := &Engine{
		model:  options.aiConfig.EmbeddingModel,
		logger: options.logger.With("component", "engine"),
	}

	switch {
	case options.repo != nil:
		e.repo = options.repo
	case options.storePath != "":
		repo, err := badger.NewRepository(options.storePath)
		if err != nil {
			return nil, err
		}
		e.repo, e.ownsRepo = repo, true
	case options.inMemory:
		repo, err := badger.NewMemoryRepository()
		if err != nil {
			return nil, err
		}
		e.repo, e.ownsRepo = repo, true
	}

	provider := options.provider
	if provider == nil {
		p, err := openai.NewProvider(options.aiConfig)
		if err != nil {
			e.closeRepo()
			return nil, err
		}
		provider = p
	}
	e.provider = provider

	vectorizer, err := vectorize.New(provider.Embedder(), options.vectorizerOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.vectorizer = vectorizer

	matcher, err := match.NewMatcher(vectorizer, options.matchOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.matcher = matcher

	cat, err := e.loadCatalog(ctx, options)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.catalog = cat

	e.logger.Info("engine ready", "items", cat.Len(), "embedded", cat.Embedded(), "dimensions", cat.Dimension())
	return e, nil
}

func (e *Engine) loadCatalog(ctx context.Context, options *engineOptions) (*catalog.Catalog, error) {
	if options.catalog != nil {
		return options.catalog, nil
	}

	if e.repo != nil {
		items, err := e.repo.AllItems(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read stored catalog: %w", err)
		}
		if len(items) > 0 {
			e.logger.Debug("catalog loaded from store", "items", len(items))
			return catalog.New(items)
		}
	}

	if options.loader == nil {
		return nil, catalog.ErrCatalogUnavailable
	}
	cat, err := options.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	if e.repo != nil {
		if err := e.store(ctx, cat); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// store writes the catalog and its metadata in one transaction.
func (e *Engine) store(ctx context.Context, cat *catalog.Catalog) error {
	return e.repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.repo.PutItems(ctx, cat.Items()...); err != nil {
			return fmt.Errorf("failed to store catalog: %w", err)
		}
		return e.repo.SaveMeta(ctx, core.CatalogMeta{
			Model:      e.model,
			Dimensions: cat.Dimension(),
			Items:      cat.Len(),
		})
	})
}

// Close releases the provider and, when the engine opened it, the store.
// Calling Close more than once is safe.
func (e *Engine) Close() error {
	var errs []error
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
		e.provider = nil
	}
	if err := e.closeRepo(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e *Engine) closeRepo() error {
	if e.repo == nil || !e.ownsRepo {
		return nil
	}
	err := e.repo.Close()
	e.repo = nil
	if err != nil {
		e.logger.Error("error closing catalog store", "err", err)
	}
	return err
}

// Catalog returns the catalog being served.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Repository returns the snapshot store, or nil when none was configured.
func (e *Engine) Repository() storage.CatalogRepository {
	return e.repo
}

// Provider returns the AI provider, or nil after Close.
func (e *Engine) Provider() ai.AIProvider {
	return e.provider
}

// Matcher returns the matcher serving Match and Recommend.
func (e *Engine) Matcher() *match.Matcher {
	return e.matcher
}

// Match recommends catalog items for the given descriptions.
func (e *Engine) Match(ctx context.Context, queries []string, targetGender core.Gender, excludedCategory string) ([]core.MatchResult, error) {
	return e.matcher.Match(ctx, e.catalog, queries, targetGender, excludedCategory)
}

// Recommend captions the image and matches the suggested items against the
// catalog. The caption is returned alongside the matches.
func (e *Engine) Recommend(ctx context.Context, image ai.Image) (core.Caption, []core.MatchResult, error) {
	caption, err := e.provider.Captioner().Caption(ctx, image, e.catalog.Categories())
	if err != nil {
		return core.Caption{}, nil, fmt.Errorf("failed to caption image: %w", err)
	}
	e.logger.Debug("image captioned", "category", caption.Category, "gender", caption.Gender, "items", len(caption.Items))

	results, err := e.matcher.MatchCaption(ctx, e.catalog, caption)
	if err != nil {
		return caption, nil, err
	}
	return caption, results, nil
}

// Check asks the vision model whether suggested goes with reference.
func (e *Engine) Check(ctx context.Context, reference, suggested ai.Image) (core.Verdict, error) {
	verdict, err := e.provider.MatchValidator().Validate(ctx, reference, suggested)
	if err != nil {
		return core.Verdict{}, fmt.Errorf("failed to validate match: %w", err)
	}
	return verdict, nil
}

// NewIngestionPipeline returns a pipeline that embeds with the engine's vectorizer.
func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(e.vectorizer, opts...)
}

// NewReembedder returns a reembedder over the engine's store.
func (e *Engine) NewReembedder(opts ...reembed.Option) (*reembed.Reembedder, error) {
	if e.repo == nil {
		return nil, fmt.Errorf("%w: no catalog store configured", core.ErrConfiguration)
	}
	return reembed.NewReembedder(e.repo, e.vectorizer, opts...)
}
