package main

import (
	"fmt"
	"strings"

	"github.com/poiesic/vecseed"
	"github.com/poiesic/vecseed/ai"
	"github.com/poiesic/vecseed/chunker"
	"github.com/poiesic/vecseed/core"
	"github.com/poiesic/vecseed/ingestion"
	"github.com/poiesic/vecseed/loader"
	"github.com/poiesic/vecseed/storage"
	"github.com/urfave/cli/v2"
)

const (
	defaultEmbeddingHost = "http://localhost:11434/v1"
	defaultListenAddr    = ":8080"
	defaultBaseURL       = "http://localhost:8080"
)

// configFlags are shared by every command that opens a seeder.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "target-index",
			Aliases: []string{"i"},
			Usage:   "Name of the vector index to populate",
			EnvVars: []string{"VECSEED_TARGET_INDEX"},
		},
		&cli.StringFlag{
			Name:    "docs",
			Aliases: []string{"d"},
			Usage:   "Corpus root directory",
			Value:   "docs",
			EnvVars: []string{"VECSEED_DOCS_PATH"},
		},
		&cli.StringFlag{
			Name:    "metadata",
			Usage:   "Side metadata JSON file ({\"documents\": [...]})",
			EnvVars: []string{"VECSEED_METADATA_PATH"},
		},
		&cli.StringSliceFlag{
			Name:    "extension",
			Usage:   "File extension to load (repeatable: " + strings.Join(loader.SupportedExtensions(), ", ") + ")",
			Value:   cli.NewStringSlice(".pdf"),
			EnvVars: []string{"VECSEED_EXTENSIONS"},
		},
		&cli.IntFlag{
			Name:    "loader-concurrency",
			Usage:   "Number of files extracted at once (0 = half the CPUs)",
			EnvVars: []string{"VECSEED_LOADER_CONCURRENCY"},
		},
		&cli.StringFlag{
			Name:    "embedding-provider",
			Usage:   "Embedding provider (openai, gemini)",
			Value:   ai.ProviderOpenAI,
			EnvVars: []string{"VECSEED_EMBEDDING_PROVIDER"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL (OpenAI-compatible providers)",
			Value:   defaultEmbeddingHost,
			EnvVars: []string{"VECSEED_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:     "embedding-model",
			Usage:    "Embedding model name",
			Required: true,
			EnvVars:  []string{"VECSEED_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "embedding-api-key",
			Usage:   "Embedding provider credential",
			EnvVars: []string{"VECSEED_EMBEDDING_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"},
		},
		&cli.IntFlag{
			Name:    "embedding-cache-size",
			Usage:   "Cache up to N embeddings in memory (0 disables)",
			EnvVars: []string{"VECSEED_EMBEDDING_CACHE_SIZE"},
		},
		&cli.StringFlag{
			Name:    "index-backend",
			Usage:   "Vector index backend (badger, postgres)",
			Value:   vecseed.BackendBadger,
			EnvVars: []string{"VECSEED_INDEX_BACKEND"},
		},
		&cli.StringFlag{
			Name:    "db",
			Usage:   "Path to BadgerDB database directory",
			Value:   "data",
			EnvVars: []string{"VECSEED_BADGER_PATH"},
		},
		&cli.StringFlag{
			Name:    "postgres-dsn",
			Usage:   "PostgreSQL connection string for the postgres backend",
			EnvVars: []string{"VECSEED_POSTGRES_DSN", "DATABASE_URL"},
		},
		&cli.IntFlag{
			Name:    "chunk-size",
			Usage:   "Maximum chunk length in characters",
			Value:   chunker.DefaultChunkSize,
			EnvVars: []string{"VECSEED_CHUNK_SIZE"},
		},
		&cli.IntFlag{
			Name:    "chunk-overlap",
			Usage:   "Characters shared by consecutive chunks",
			Value:   chunker.DefaultChunkOverlap,
			EnvVars: []string{"VECSEED_CHUNK_OVERLAP"},
		},
		&cli.IntFlag{
			Name:    "batch-size",
			Usage:   "Number of chunks embedded per provider call",
			Value:   ingestion.DefaultBatchSize,
			EnvVars: []string{"VECSEED_BATCH_SIZE"},
		},
		&cli.IntFlag{
			Name:    "upsert-batch-size",
			Usage:   "Number of vectors per index write",
			Value:   storage.DefaultUpsertBatchSize,
			EnvVars: []string{"VECSEED_UPSERT_BATCH_SIZE"},
		},
		&cli.IntFlag{
			Name:    "max-content-length",
			Usage:   "Exclusive upper bound on embeddable text length",
			Value:   core.DefaultMaxContentLength,
			EnvVars: []string{"VECSEED_MAX_CONTENT_LENGTH"},
		},
		&cli.StringFlag{
			Name:    "id-strategy",
			Usage:   "Vector ID strategy (random, content)",
			Value:   string(core.IDStrategyRandom),
			EnvVars: []string{"VECSEED_ID_STRATEGY"},
		},
		&cli.IntFlag{
			Name:    "max-retries",
			Usage:   "Extra embedding attempts per batch",
			EnvVars: []string{"VECSEED_MAX_RETRIES"},
		},
		&cli.DurationFlag{
			Name:    "retry-delay",
			Usage:   "Base delay for exponential backoff",
			Value:   ingestion.DefaultRetryDelay,
			EnvVars: []string{"VECSEED_RETRY_DELAY"},
		},
		&cli.Float64Flag{
			Name:    "batches-per-second",
			Usage:   "Throttle outer batches (0 disables)",
			EnvVars: []string{"VECSEED_BATCHES_PER_SECOND"},
		},
		&cli.BoolFlag{
			Name:    "normalize",
			Usage:   "Scale vectors to unit length before writing",
			EnvVars: []string{"VECSEED_NORMALIZE"},
		},
	}
}

func listenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "listen",
		Usage:   "HTTP listen address",
		Value:   defaultListenAddr,
		EnvVars: []string{"VECSEED_LISTEN_ADDR"},
	}
}

func reportIntervalFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "report-interval",
		Usage: "Report progress every N batches",
		Value: 1,
	}
}

func triggerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL of a running vecseed server",
			Value:   defaultBaseURL,
			EnvVars: []string{"VECSEED_BASE_URL"},
		},
		&cli.StringFlag{
			Name:     "target-index",
			Aliases:  []string{"i"},
			Usage:    "Name of the vector index to populate",
			Required: true,
			EnvVars:  []string{"VECSEED_TARGET_INDEX"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Give up waiting for the server after this long (0 waits forever)",
		},
	}
}

// configFromContext maps command flags onto a vecseed.Config and validates it.
func configFromContext(c *cli.Context) (vecseed.Config, error) {
	cfg := vecseed.DefaultConfig()

	cfg.AI = ai.NewConfig(
		ai.WithProvider(c.String("embedding-provider")),
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("embedding-api-key")),
	)
	if err := cfg.AI.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid AI configuration: %w", err)
	}

	cfg.Ingestion.TargetIndex = c.String("target-index")
	cfg.Ingestion.ChunkSize = c.Int("chunk-size")
	cfg.Ingestion.ChunkOverlap = c.Int("chunk-overlap")
	cfg.Ingestion.BatchSize = c.Int("batch-size")
	cfg.Ingestion.UpsertBatchSize = c.Int("upsert-batch-size")
	cfg.Ingestion.MaxContentLength = c.Int("max-content-length")
	cfg.Ingestion.IDStrategy = core.IDStrategy(c.String("id-strategy"))
	cfg.Ingestion.MaxRetries = c.Int("max-retries")
	cfg.Ingestion.RetryDelay = c.Duration("retry-delay")
	cfg.Ingestion.BatchesPerSecond = c.Float64("batches-per-second")
	cfg.Ingestion.Normalize = c.Bool("normalize")

	cfg.DocsPath = c.String("docs")
	cfg.MetadataPath = c.String("metadata")
	cfg.Extensions = c.StringSlice("extension")
	cfg.LoaderConcurrency = c.Int("loader-concurrency")
	cfg.IndexBackend = c.String("index-backend")
	cfg.BadgerPath = c.String("db")
	cfg.PostgresDSN = c.String("postgres-dsn")
	cfg.EmbeddingCacheSize = c.Int("embedding-cache-size")

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
