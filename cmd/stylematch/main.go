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


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/stylematch/ingestion"
	"github.com/poiesic/stylematch/rank"
	"github.com/poiesic/stylematch/reembed"
	"github.com/poiesic/stylematch/vectorize"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stylematch",
		Usage: "Embedding-based clothing recommendations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file read before the environment",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL (overrides STYLEMATCH_EMBEDDING_HOST)",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name (overrides STYLEMATCH_EMBEDDING_MODEL)",
			},
			&cli.IntFlag{
				Name:  "embedding-dimensions",
				Usage: "Requested embedding size, 0 for the model default",
			},
			&cli.StringFlag{
				Name:  "vision-host",
				Usage: "Vision service host URL (overrides STYLEMATCH_VISION_HOST)",
			},
			&cli.StringFlag{
				Name:  "vision-model",
				Usage: "Vision model name (overrides STYLEMATCH_VISION_MODEL)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "embed",
				Usage:     "Embed every description of a raw catalog CSV",
				Action:    embedCommand,
				ArgsUsage: " ",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Raw catalog CSV",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Embedded catalog CSV to write",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "store",
						Usage: "Also write the catalog to this BadgerDB directory",
					},
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Upload the result to the STYLEMATCH_S3_* location",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of descriptions per embedding request",
						Value: ingestion.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of embedding requests in flight",
						Value: ingestion.DefaultConcurrency,
					},
					&cli.Float64Flag{
						Name:  "cost-per-1k",
						Usage: "Price in USD per 1000 tokens",
						Value: ingestion.DefaultCostPer1KTokens,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Estimate tokens and cost of embedding a catalog",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Catalog CSV",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max-tokens",
						Usage: "Per-description token limit",
						Value: vectorize.DefaultMaxTokens,
					},
					&cli.Float64Flag{
						Name:  "cost-per-1k",
						Usage: "Price in USD per 1000 tokens",
						Value: ingestion.DefaultCostPer1KTokens,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Re-embed stale items in a catalog store",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "store",
						Aliases:  []string{"s"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items to process in each batch",
						Value: reembed.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N items",
						Value: 100,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-embed every item",
					},
					&cli.BoolFlag{
						Name:  "normalize",
						Usage: "Scale new vectors to unit length",
					},
				},
			},
			{
				Name:      "match",
				Usage:     "Find catalog items for item descriptions",
				ArgsUsage: "<description>...",
				Action:    matchCommand,
				Flags: append(catalogFlags(),
					&cli.StringFlag{
						Name:     "gender",
						Aliases:  []string{"g"},
						Usage:    "Target gender (Men, Women, Boys, Girls, Unisex)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "exclude",
						Usage: "Category to leave out",
					},
				),
			},
			{
				Name:      "recommend",
				Usage:     "Suggest catalog items that go with a garment photo",
				ArgsUsage: "<image>",
				Action:    recommendCommand,
				Flags:     catalogFlags(),
			},
			{
				Name:      "check",
				Usage:     "Ask whether a suggested garment goes with a reference garment",
				ArgsUsage: "<reference-image> <suggested-image>",
				Action:    checkCommand,
			},
		},
	}
}

// catalogFlags are shared by the commands that serve matches.
func catalogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "catalog",
			Aliases: []string{"c"},
			Usage:   "Embedded catalog CSV",
			Value:   "catalog.csv",
		},
		&cli.StringFlag{
			Name:  "store",
			Usage: "BadgerDB directory holding the catalog snapshot",
		},
		&cli.IntFlag{
			Name:  "sample",
			Usage: "Serve N generated items when no catalog is found",
		},
		&cli.Float64Flag{
			Name:  "threshold",
			Usage: "Minimum cosine similarity of a match",
			Value: float64(rank.DefaultThreshold),
		},
		&cli.IntFlag{
			Name:  "top-k",
			Usage: "Matches kept per description",
			Value: rank.DefaultTopK,
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Descriptions embedded at once",
			Value: 1,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Print filtering and per-description progress",
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
