package main

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/stylematch/ai"
	"github.com/poiesic/stylematch/ai/openai"
	"github.com/poiesic/stylematch/catalog"
	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/vectorize"
)

// Replaced in tests.
var (
	newProvider  = openai.NewProvider
	newTokenizer = func() (vectorize.Tokenizer, error) {
		return vectorize.NewTiktokenTokenizer(vectorize.DefaultEncoding)
	}
)

// loadAIConfig reads the dotenv file and environment, then applies any
// service flags given on the command line.
func loadAIConfig(c *cli.Context) (*ai.Config, error) {
	cfg, err := ai.LoadConfig(c.String("env-file"))
	if err != nil {
		return nil, err
	}

	var opts []ai.ConfigOption
	if c.IsSet("embedding-host") {
		opts = append(opts, ai.WithEmbeddingHost(c.String("embedding-host")))
	}
	if c.IsSet("embedding-model") {
		opts = append(opts, ai.WithEmbeddingModel(c.String("embedding-model")))
	}
	if c.IsSet("embedding-dimensions") {
		opts = append(opts, ai.WithEmbeddingDimensions(c.Int("embedding-dimensions")))
	}
	if c.IsSet("vision-host") {
		opts = append(opts, ai.WithVisionHost(c.String("vision-host")))
	}
	if c.IsSet("vision-model") {
		opts = append(opts, ai.WithVisionModel(c.String("vision-model")))
	}
	return cfg.Apply(opts...), nil
}

// loadS3Config reads the STYLEMATCH_S3_* variables. It must run after
// loadAIConfig so the dotenv file has been applied.
func loadS3Config() (catalog.S3Config, error) {
	var cfg catalog.S3Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
	}
	return cfg, nil
}

// loadServices builds the AI provider and a vectorizer over its embedder.
func loadServices(c *cli.Context) (*ai.Config, ai.AIProvider, *vectorize.Vectorizer, error) {
	cfg, err := loadAIConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create AI provider: %w", err)
	}

	tok, err := newTokenizer()
	if err != nil {
		provider.Close()
		return nil, nil, nil, err
	}

	vec, err := vectorize.New(provider.Embedder(), vectorize.WithTokenizer(tok))
	if err != nil {
		provider.Close()
		return nil, nil, nil, err
	}
	return cfg, provider, vec, nil
}

// newLoader builds the catalog loader for the --catalog and --sample flags,
// adding the S3 fallback when it is configured.
func newLoader(ctx context.Context, c *cli.Context, dims int) (*catalog.Loader, error) {
	opts := []catalog.LoaderOption{}

	s3cfg, err := loadS3Config()
	if err != nil {
		return nil, err
	}
	if s3cfg.Enabled() {
		src, err := catalog.NewS3Source(ctx, s3cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithRemote(src))
	}

	if n := c.Int("sample"); n > 0 {
		opts = append(opts, catalog.WithSampleFallback(n, dims))
	}
	return catalog.NewLoader(c.String("catalog"), opts...), nil
}
