package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/stylematch/catalog"
	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/storage/badger"
)

// sampleModel is recorded as the embedding model of generated vectors.
const sampleModel = "sample"

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "seeder",
		Usage: "Generate a sample catalog for demos and tests",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of items to generate",
				Value:   500,
			},
			&cli.IntFlag{
				Name:  "dims",
				Usage: "Embedding size, 0 for a raw catalog without vectors",
				Value: 0,
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Random seed; the same seed gives the same catalog",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Write the catalog to this CSV file",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Write the catalog to this BadgerDB directory",
			},
		},
		Action: seed,
	}
}

func seed(c *cli.Context) error {
	csvPath, storePath := c.String("csv"), c.String("store")
	if csvPath == "" && storePath == "" {
		return errors.New("at least one of --csv or --store is required")
	}
	if c.Int("count") <= 0 {
		return fmt.Errorf("count must be greater than 0")
	}

	items := catalog.Sample(c.Int("count"), c.Int("dims"), c.Uint64("seed"))

	if csvPath != "" {
		if err := catalog.Save(csvPath, items); err != nil {
			return err
		}
		slog.Info("wrote catalog", "path", csvPath, "items", len(items))
	}

	if storePath != "" {
		if err := seedStore(c.Context, storePath, items, c.Int("dims")); err != nil {
			return err
		}
		slog.Info("seeded store", "path", storePath, "items", len(items))
	}
	return nil
}

func seedStore(ctx context.Context, path string, items []core.CatalogItem, dims int) error {
	repo, err := badger.NewRepository(path)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.PutItems(ctx, items...); err != nil {
		return err
	}
	meta := core.CatalogMeta{Dimensions: dims, Items: len(items)}
	if dims > 0 {
		meta.Model = sampleModel
	}
	return repo.SaveMeta(ctx, meta)
}
