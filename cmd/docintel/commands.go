package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/poiesic/docintel"
	"github.com/poiesic/docintel/ai"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/engine"
	"github.com/poiesic/docintel/indexing"
	"github.com/urfave/cli/v2"
)

func engineConfig(c *cli.Context) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := engine.LoadConfig(path)
		if err != nil {
			return engine.Config{}, err
		}
		cfg = loaded
	}

	if c.IsSet("timeout") {
		engine.WithOverallTimeout(c.Duration("timeout"))(&cfg)
	}
	if c.IsSet("max-pairs") {
		engine.WithMaxPairsTotal(c.Int("max-pairs"))(&cfg)
	}
	if !c.Bool("llm") {
		engine.WithLLMValidation(false)(&cfg)
	}
	return cfg, cfg.Validate()
}

func openWorkspace(c *cli.Context) (*docintel.Workspace, error) {
	cfg, err := engineConfig(c)
	if err != nil {
		return nil, err
	}

	opts := []docintel.WorkspaceOption{docintel.WithEngineConfig(cfg)}
	if c.String("db") == "" {
		opts = append(opts, docintel.WithInMemory())
	}
	if c.Bool("llm") {
		aiConfig := ai.NewConfig(
			ai.WithHost(c.String("host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithChatModel(c.String("chat-model")),
			ai.WithRateLimit(c.Float64("rps"), 1),
		)
		if err := aiConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid AI configuration: %w", err)
		}
		opts = append(opts, docintel.WithAIConfig(aiConfig))
	}
	if c.Bool("verbose") {
		opts = append(opts, docintel.WithMonitor(newColorMonitor(c.App.ErrWriter)))
	}

	ws, err := docintel.Open(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	return ws, nil
}

// withWorkspace loads the documents named by the first argument, opens a
// workspace and runs fn.
func withWorkspace(c *cli.Context, fn func(ctx context.Context, ws *docintel.Workspace, docs []*core.Document) error) error {
	docs, err := loadDocuments(c.Args().First(), stdin(c))
	if err != nil {
		return err
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	return fn(c.Context, ws, docs)
}

func stdin(c *cli.Context) io.Reader {
	if c.App.Reader != nil {
		return c.App.Reader
	}
	return os.Stdin
}

func analyzeCommand(c *cli.Context) error {
	return withWorkspace(c, func(ctx context.Context, ws *docintel.Workspace, docs []*core.Document) error {
		report := ws.Engine().Analyze(ctx, docs, engine.Request{
			Lightweight: c.Bool("lightweight"),
			Targets:     c.StringSlice("target"),
		})
		return newRenderer(c).analysis(report)
	})
}

func clusterCommand(c *cli.Context) error {
	return withWorkspace(c, func(ctx context.Context, ws *docintel.Workspace, docs []*core.Document) error {
		strategy := ws.Engine().Config().ClusteringStrategy
		if name := c.String("strategy"); name != "" {
			parsed, err := core.ParseClusteringStrategy(name)
			if err != nil {
				return err
			}
			strategy = parsed
		}
		return newRenderer(c).clusters(ws.Engine().Cluster(ctx, docs, strategy))
	})
}

func conflictsCommand(c *cli.Context) error {
	return withWorkspace(c, func(ctx context.Context, ws *docintel.Workspace, docs []*core.Document) error {
		return newRenderer(c).conflicts(ws.Engine().DetectConflicts(ctx, docs))
	})
}

func similarCommand(c *cli.Context) error {
	return withWorkspace(c, func(ctx context.Context, ws *docintel.Workspace, docs []*core.Document) error {
		ranked, err := ws.Engine().FindSimilar(ctx, c.String("target"), docs, c.Int("limit"))
		if err != nil {
			return err
		}
		return newRenderer(c).ranked("Similar to "+c.String("target"), ranked)
	})
}

func complementCommand(c *cli.Context) error {
	return withWorkspace(c, func(ctx context.Context, ws *docintel.Workspace, docs []*core.Document) error {
		ranked, err := ws.Engine().FindComplementary(ctx, c.String("target"), docs, c.Int("limit"))
		if err != nil {
			return err
		}
		return newRenderer(c).ranked("Complements "+c.String("target"), ranked)
	})
}

func relationshipsCommand(c *cli.Context) error {
	var types []core.RelationshipType
	for _, name := range c.StringSlice("type") {
		t, err := core.ParseRelationshipType(name)
		if err != nil {
			return err
		}
		types = append(types, t)
	}

	return withWorkspace(c, func(ctx context.Context, ws *docintel.Workspace, docs []*core.Document) error {
		relationships, err := ws.Engine().FindDocumentRelationships(ctx, c.String("target"), docs, types)
		if err != nil {
			return err
		}
		return newRenderer(c).relationships(relationships)
	})
}

func neighboursCommand(c *cli.Context) error {
	if c.String("db") == "" {
		return fmt.Errorf("neighbours reads stored embeddings: pass --db")
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	matches, err := ws.Neighbours(c.Context, c.String("target"), c.Int("limit"))
	if err != nil {
		return err
	}
	return newRenderer(c).neighbours(c.String("target"), matches)
}

func indexCommand(c *cli.Context) error {
	if !c.Bool("llm") {
		return fmt.Errorf("index needs an embedding service: pass --llm")
	}

	return withWorkspace(c, func(ctx context.Context, ws *docintel.Workspace, docs []*core.Document) error {
		cfg := indexing.DefaultConfig()
		cfg.BatchSize = c.Int("batch-size")
		cfg.ReportInterval = c.Int("report-interval")
		cfg.MaxRetries = c.Int("max-retries")
		cfg.RetryDelay = c.Duration("retry-delay")
		cfg.TextWindow = ws.Engine().Config().TextWindowChars
		cfg.Model = c.String("embedding-model")
		cfg.Reindex = c.Bool("reindex")

		ix, err := ws.NewIndexer(indexing.WithConfig(cfg), indexing.WithProgress(c.App.ErrWriter))
		if err != nil {
			return err
		}
		defer ix.Release()

		fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", c.String("db"))
		fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", c.String("host"))
		fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", c.String("embedding-model"))
		fmt.Fprintln(c.App.ErrWriter)

		result, err := ix.Index(ctx, docs)
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
		return newRenderer(c).indexed(result)
	})
}
