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
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "docintel",
		Usage: "Cross-document analysis: clusters, conflicts and complementary content",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an engine TOML config file",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, json)",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the BadgerDB embedding store (in-memory when empty)",
			},
			&cli.BoolFlag{
				Name:  "llm",
				Usage: "Connect to the embedding and chat services",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "OpenAI-compatible service host URL",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "embeddinggemma",
			},
			&cli.StringFlag{
				Name:  "chat-model",
				Usage: "Chat model used to adjudicate conflicts",
				Value: "qwen2.5:3b",
			},
			&cli.Float64Flag{
				Name:  "rps",
				Usage: "Maximum chat requests per second (0 disables limiting)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Overall request budget (overrides the config file)",
			},
			&cli.IntFlag{
				Name:  "max-pairs",
				Usage: "Maximum document pairs scored per request (overrides the config file)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print engine stages to stderr",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Run the full analysis over a document file",
				ArgsUsage: "DOCUMENTS.json",
				Action:    analyzeCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "lightweight",
						Usage: "Only compute similarity insights",
					},
					&cli.StringSliceFlag{
						Name:    "target",
						Aliases: []string{"t"},
						Usage:   "Document id to rank complementary content for (repeatable)",
					},
				},
			},
			{
				Name:      "cluster",
				Usage:     "Group related documents",
				ArgsUsage: "DOCUMENTS.json",
				Action:    clusterCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "strategy",
						Aliases: []string{"s"},
						Usage:   "Clustering strategy (mixed_features, entity_based, topic_based, project_based, hierarchical, adaptive)",
					},
				},
			},
			{
				Name:      "conflicts",
				Usage:     "Find documents that contradict each other",
				ArgsUsage: "DOCUMENTS.json",
				Action:    conflictsCommand,
			},
			{
				Name:      "similar",
				Usage:     "Rank documents by similarity to a target",
				ArgsUsage: "DOCUMENTS.json",
				Action:    similarCommand,
				Flags:     targetFlags(),
			},
			{
				Name:      "complement",
				Usage:     "Rank documents that complement a target",
				ArgsUsage: "DOCUMENTS.json",
				Action:    complementCommand,
				Flags:     targetFlags(),
			},
			{
				Name:      "relationships",
				Usage:     "Map every relationship of a target document",
				ArgsUsage: "DOCUMENTS.json",
				Action:    relationshipsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "target",
						Aliases:  []string{"t"},
						Usage:    "Target document id",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "type",
						Usage: "Relationship type to include (repeatable; default all)",
					},
				},
			},
			{
				Name:   "neighbours",
				Usage:  "List the stored documents with the closest embeddings to a target (requires --db)",
				Action: neighboursCommand,
				Flags:  targetFlags(),
			},
			{
				Name:      "index",
				Usage:     "Embed documents into the store (requires --llm)",
				ArgsUsage: "DOCUMENTS.json",
				Action:    indexCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "reindex",
						Usage: "Embed documents even when a record for the model exists",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents per embedding call",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per batch",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}
}

func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "target",
			Aliases:  []string{"t"},
			Usage:    "Target document id",
			Required: true,
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum results",
			Value:   5,
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

	switch c.String("format") {
	case formatText, formatJSON:
	default:
		return fmt.Errorf("invalid format %q: must be one of text, json", c.String("format"))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
