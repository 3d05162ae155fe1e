package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/stylematch"
	"github.com/poiesic/stylematch/ai"
	"github.com/poiesic/stylematch/catalog"
	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/ingestion"
	"github.com/poiesic/stylematch/match"
	"github.com/poiesic/stylematch/reembed"
	"github.com/poiesic/stylematch/storage/badger"
	"github.com/poiesic/stylematch/vectorize"
)

func readItems(path string) ([]core.CatalogItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return catalog.ReadItems(f)
}

func embedCommand(c *cli.Context) error {
	ctx := c.Context
	out := c.App.Writer

	items, err := readItems(c.String("input"))
	if err != nil {
		return err
	}

	cfg, provider, vec, err := loadServices(c)
	if err != nil {
		return err
	}
	defer provider.Close()

	pipeline, err := ingestion.NewPipeline(vec,
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithConcurrency(c.Int("concurrency")),
		ingestion.WithCostPer1KTokens(c.Float64("cost-per-1k")),
		ingestion.WithStatsHook(func(s ingestion.CorpusStats) {
			fmt.Fprintf(c.App.ErrWriter, "Embedding %d descriptions, %d tokens, estimated cost $%.4f\n",
				s.Texts, s.Tokens, s.EstimatedCost)
		}),
	)
	if err != nil {
		return err
	}

	embedded, err := pipeline.EmbedCatalog(ctx, items)
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}
	cat, err := catalog.New(embedded)
	if err != nil {
		return err
	}

	if err := catalog.Save(c.String("output"), embedded); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d items (%d dimensions) to %s\n", cat.Len(), cat.Dimension(), c.String("output"))

	if path := c.String("store"); path != "" {
		if err := storeCatalog(ctx, path, cfg.EmbeddingModel, cat); err != nil {
			return err
		}
		fmt.Fprintf(out, "Stored %d items in %s\n", cat.Len(), path)
	}

	if c.Bool("upload") {
		s3cfg, err := loadS3Config()
		if err != nil {
			return err
		}
		src, err := catalog.NewS3Source(ctx, s3cfg)
		if err != nil {
			return err
		}
		if err := src.Upload(ctx, embedded); err != nil {
			return err
		}
		fmt.Fprintf(out, "Uploaded to %s\n", src.Location())
	}
	return nil
}

// storeCatalog writes cat and its metadata to the badger store at path.
func storeCatalog(ctx context.Context, path, model string, cat *catalog.Catalog) error {
	repo, err := badger.NewRepository(path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer repo.Close()

	return repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := repo.PutItems(ctx, cat.Items()...); err != nil {
			return err
		}
		return repo.SaveMeta(ctx, core.CatalogMeta{
			Model:      model,
			Dimensions: cat.Dimension(),
			Items:      cat.Len(),
		})
	})
}

func statsCommand(c *cli.Context) error {
	items, err := readItems(c.String("input"))
	if err != nil {
		return err
	}

	tok, err := newTokenizer()
	if err != nil {
		return err
	}

	corpus := make([]string, len(items))
	for i := range items {
		corpus[i] = items[i].Description
	}
	stats := ingestion.EstimateCorpus(tok, c.Int("max-tokens"), c.Float64("cost-per-1k"), corpus)

	fmt.Fprintf(c.App.Writer, "Descriptions:   %d\n", stats.Texts)
	fmt.Fprintf(c.App.Writer, "Tokens:         %d\n", stats.Tokens)
	fmt.Fprintf(c.App.Writer, "Estimated cost: $%.4f\n", stats.EstimatedCost)
	return nil
}

func reembedCommand(c *cli.Context) error {
	cfg, provider, vec, err := loadServices(c)
	if err != nil {
		return err
	}
	defer provider.Close()

	repo, err := badger.NewRepository(c.String("store"))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer repo.Close()

	r, err := reembed.NewReembedder(repo, vec,
		reembed.WithProgress(c.App.ErrWriter),
		reembed.WithConfig(&reembed.Config{
			BatchSize:      c.Int("batch-size"),
			ReportInterval: c.Int("report-interval"),
			Dimensions:     cfg.EmbeddingDimensions,
			Model:          cfg.EmbeddingModel,
			Force:          c.Bool("force"),
			Normalize:      c.Bool("normalize"),
		}),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "Store: %s\n", c.String("store"))
	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", cfg.EmbeddingHost)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", cfg.EmbeddingModel)
	fmt.Fprintln(c.App.ErrWriter)

	result, err := r.Run(c.Context)
	if err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Checked %d items, re-embedded %d\n", result.Scanned, result.Updated)
	return nil
}

// openEngine builds an Engine for the catalog flags. The sample fallback
// uses the embedding size of the configured model when it is known.
func openEngine(c *cli.Context) (*stylematch.Engine, error) {
	cfg, err := loadAIConfig(c)
	if err != nil {
		return nil, err
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}
	tok, err := newTokenizer()
	if err != nil {
		provider.Close()
		return nil, err
	}

	loader, err := newLoader(c.Context, c, cfg.EmbeddingDimensions)
	if err != nil {
		provider.Close()
		return nil, err
	}

	matchOpts := []match.Option{
		match.WithThreshold(float32(c.Float64("threshold"))),
		match.WithTopK(c.Int("top-k")),
		match.WithConcurrency(c.Int("concurrency")),
	}
	if c.Bool("verbose") {
		matchOpts = append(matchOpts, match.WithMonitor(newPrintMonitor(c.App.ErrWriter)))
	}

	opts := []stylematch.EngineOption{
		stylematch.WithAIConfig(cfg),
		stylematch.WithProvider(provider),
		stylematch.WithLoader(loader),
		stylematch.WithVectorizerOptions(vectorize.WithTokenizer(tok)),
		stylematch.WithMatchOptions(matchOpts...),
	}
	if path := c.String("store"); path != "" {
		opts = append(opts, stylematch.WithStore(path))
	}
	return stylematch.NewEngine(c.Context, opts...)
}

func printResults(c *cli.Context, results []core.MatchResult) {
	if len(results) == 0 {
		fmt.Fprintln(c.App.Writer, "No matches")
		return
	}
	for _, r := range results {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%.3f\t%s\t%s\n",
			r.Query, r.Item.Id, r.Score, r.Item.Category, r.Item.Description)
	}
}

func matchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one description is required")
	}
	gender, err := core.ParseGender(c.String("gender"))
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.Match(c.Context, c.Args().Slice(), gender, c.String("exclude"))
	if err != nil {
		return err
	}
	printResults(c, results)
	return nil
}

func recommendCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("exactly one image is required")
	}
	image, err := ai.ReadImage(c.Args().First())
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	caption, results, err := engine.Recommend(c.Context, image)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Garment: %s (%s)\n", caption.Category, caption.Gender)
	printResults(c, results)
	return nil
}

func checkCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("a reference and a suggested image are required")
	}
	reference, err := ai.ReadImage(c.Args().Get(0))
	if err != nil {
		return err
	}
	suggested, err := ai.ReadImage(c.Args().Get(1))
	if err != nil {
		return err
	}

	cfg, err := loadAIConfig(c)
	if err != nil {
		return err
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	verdict, err := provider.MatchValidator().Validate(c.Context, reference, suggested)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: %s\n", verdict.AnswerString(), verdict.Reason)
	return nil
}
