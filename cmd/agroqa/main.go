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
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/agroqa"
	"github.com/poiesic/agroqa/ai"
	"github.com/poiesic/agroqa/ai/openai"
	"github.com/poiesic/agroqa/artifact"
	"github.com/poiesic/agroqa/core"
	corpusbadger "github.com/poiesic/agroqa/corpus/badger"
	"github.com/poiesic/agroqa/httpapi"
	"github.com/poiesic/agroqa/ingest"
	"github.com/poiesic/agroqa/rank"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "agroqa",
		Usage: "Agricultural question-answering service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the question-answering API over HTTP",
				Action: serveCommand,
				Flags: append(encoderFlags(),
					&cli.StringFlag{
						Name:     "artifacts",
						Aliases:  []string{"a"},
						Usage:    "Path to the artifact directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "listen",
						Usage: "HTTP listen address",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:  "scorer-host",
						Usage: "Answer-scoring service host URL (empty disables LLM reranking)",
					},
					&cli.StringFlag{
						Name:  "scorer-model",
						Usage: "Answer-scoring model name",
					},
					&cli.DurationFlag{
						Name:  "scorer-timeout",
						Usage: "Per-call scoring timeout",
						Value: 5 * time.Second,
					},
					&cli.Float64Flag{
						Name:  "llm-weight",
						Usage: "LLM rerank blend weight, clamped to [0, 0.5]",
						Value: rank.DefaultLLMWeight,
					},
					&cli.IntFlag{
						Name:  "llm-prefix",
						Usage: "Number of top candidates the scorer grades, clamped to [1, 25]",
						Value: rank.DefaultLLMPrefix,
					},
					&cli.IntFlag{
						Name:  "cache-size",
						Usage: "Result cache capacity",
						Value: 64,
					},
					&cli.Float64Flag{
						Name:  "alpha",
						Usage: "Override the similarity/lexical blend weight (default: derived from metrics)",
						Value: -1,
					},
					&cli.Float64Flag{
						Name:  "min-cosine",
						Usage: "Override the low-confidence similarity threshold (default: derived from metrics)",
						Value: -1,
					},
				),
			},
			{
				Name:   "ingest",
				Usage:  "Ingest question/answer pairs from CSV into the corpus",
				Action: ingestCommand,
				Flags: append(encoderFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB corpus directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "csv",
						Usage:    "Path to the CSV file (question,answer columns)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of pairs to embed in each batch",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent embedding workers (0 = half the CPUs)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 500 * time.Millisecond,
					},
				),
			},
			{
				Name:   "export",
				Usage:  "Export serving artifacts from the corpus",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB corpus directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "artifacts",
						Aliases:  []string{"a"},
						Usage:    "Output artifact directory",
						Required: true,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a single question against loaded artifacts",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(encoderFlags(),
					&cli.StringFlag{
						Name:     "artifacts",
						Aliases:  []string{"a"},
						Usage:    "Path to the artifact directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of answers to return",
						Value: core.DefaultTopK,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// encoderFlags are shared by every command that talks to the embedding
// service.
func encoderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:     "embedding-model",
			Usage:    "Embedding model name",
			Required: true,
		},
	}
}

func serveCommand(c *cli.Context) error {
	aiOpts := []ai.ConfigOption{
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithScorerHost(c.String("scorer-host")),
		ai.WithScorerTimeout(c.Duration("scorer-timeout")),
	}
	if model := c.String("scorer-model"); model != "" {
		aiOpts = append(aiOpts, ai.WithScorerModel(model))
	}
	aiConfig := ai.NewConfig(aiOpts...)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}

	opts := []agroqa.ServiceOption{
		agroqa.WithCacheCapacity(c.Int("cache-size")),
		agroqa.WithPipelineOptions(
			rank.WithLLMPrefix(c.Int("llm-prefix")),
			rank.WithLLMWeight(c.Float64("llm-weight")),
			rank.WithLLMTimeout(c.Duration("scorer-timeout")),
		),
	}
	if alpha, minCos := c.Float64("alpha"), c.Float64("min-cosine"); alpha >= 0 || minCos >= 0 {
		if alpha < 0 || minCos < 0 {
			return fmt.Errorf("alpha and min-cosine must be overridden together")
		}
		opts = append(opts, agroqa.WithStoreOptions(
			artifact.WithTuningOverride(core.TuningParams{Alpha: alpha, MinCosine: minCos}),
		))
	}

	service, err := agroqa.NewService(c.String("artifacts"), provider, opts...)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer service.Close()

	// A missing index keeps the process up with /ask disabled; a reload
	// after the artifacts appear brings it online.
	if err := service.Load(); err != nil {
		if !errors.Is(err, core.ErrArtifactMissing) {
			return fmt.Errorf("failed to load artifacts: %w", err)
		}
		slog.Warn("artifacts missing, ask endpoint disabled until reload", "err", err)
	}

	api, err := httpapi.NewServer(service, slog.Default())
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    c.String("listen"),
		Handler: api.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	file, err := os.Open(c.String("csv"))
	if err != nil {
		return fmt.Errorf("failed to open CSV: %w", err)
	}
	defer file.Close()

	pairs, err := ingest.ReadPairsCSV(file)
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(pairs) == 0 {
		return fmt.Errorf("no usable pairs in %s", c.String("csv"))
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	encoder, err := openai.NewEncoder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create encoder: %w", err)
	}

	backend, err := corpusbadger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer backend.Close()
	repo := corpusbadger.NewPairRepository(backend)

	pipelineOpts := []ingest.Option{
		ingest.WithBatchSize(c.Int("batch-size")),
		ingest.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if size := c.Int("pool-size"); size > 0 {
		pipelineOpts = append(pipelineOpts, ingest.WithPoolSize(size))
	}

	pipeline, err := ingest.NewPipeline(repo, encoder, pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	if err := pipeline.Ingest(ctx, pairs); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	count, err := repo.CountPairs(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Ingested %d pairs (%d total in corpus)\n", len(pairs), count)
	return nil
}

func exportCommand(c *cli.Context) error {
	backend, err := corpusbadger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer backend.Close()

	exporter, err := ingest.NewExporter(corpusbadger.NewPairRepository(backend), slog.Default())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.String("artifacts"), 0755); err != nil {
		return err
	}
	if err := exporter.Export(context.Background(), c.String("artifacts")); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Artifacts written to %s\n", c.String("artifacts"))
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}

	service, err := agroqa.NewService(c.String("artifacts"), provider)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.Load(); err != nil {
		return fmt.Errorf("failed to load artifacts: %w", err)
	}

	results, err := service.Ask(context.Background(), question, c.Int("top-k"))
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}
	for _, result := range results {
		fmt.Printf("%d. [%.3f] %s\n", result.Rank, result.Score, result.Answer)
	}
	return nil
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
