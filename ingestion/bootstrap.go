package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/vecseed/ai"
	"github.com/poiesic/vecseed/chunker"
	"github.com/poiesic/vecseed/core"
	"github.com/poiesic/vecseed/loader"
	"github.com/poiesic/vecseed/storage"
	"golang.org/x/time/rate"
)

// Splitter divides documents into chunks.
type Splitter interface {
	Split(docs []core.Document) ([]core.Chunk, error)
}

// Bootstrapper populates a vector index from a document source exactly once.
// A Bootstrapper is safe for concurrent use; runs against the same index are
// serialized.
type Bootstrapper struct {
	source    loader.DocumentSource
	metadata  loader.MetadataStore
	splitter  Splitter
	embedder  ai.Embedder
	index     storage.VectorIndex
	validator core.ContentValidator
	newID     core.IDGenerator
	limiter   *rate.Limiter
	progress  Progress
	locks     *indexLocks
	cfg       Config
	logger    *slog.Logger
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bootstrapper) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithMetadataStore sets the side metadata store used for enrichment.
// Without one, documents keep their loader metadata.
func WithMetadataStore(store loader.MetadataStore) Option {
	return func(b *Bootstrapper) error {
		b.metadata = store
		return nil
	}
}

// WithSplitter replaces the chunker built from the configuration.
func WithSplitter(splitter Splitter) Option {
	return func(b *Bootstrapper) error {
		if splitter == nil {
			return errors.New("splitter required")
		}
		b.splitter = splitter
		return nil
	}
}

// WithProgress reports batch-loop progress.
func WithProgress(progress Progress) Option {
	return func(b *Bootstrapper) error {
		if progress == nil {
			progress = noProgress{}
		}
		b.progress = progress
		return nil
	}
}

// NewBootstrapper creates a Bootstrapper. cfg is validated; its chunk
// parameters build the default splitter.
func NewBootstrapper(
	source loader.DocumentSource,
	embedder ai.Embedder,
	index storage.VectorIndex,
	cfg Config,
	opts ...Option,
) (*Bootstrapper, error) {
	if source == nil {
		return nil, ErrDocumentSourceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	newID, err := core.NewIDGenerator(cfg.IDStrategy)
	if err != nil {
		return nil, err
	}

	b := &Bootstrapper{
		source:    source,
		embedder:  embedder,
		index:     index,
		validator: core.NewContentValidator(cfg.MaxContentLength),
		newID:     newID,
		progress:  noProgress{},
		locks:     newIndexLocks(),
		cfg:       cfg,
		logger:    slog.Default(),
	}
	if cfg.BatchesPerSecond > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(cfg.BatchesPerSecond), 1)
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	if b.splitter == nil {
		c, err := chunker.New(chunker.Config{ChunkSize: cfg.ChunkSize, ChunkOverlap: cfg.ChunkOverlap})
		if err != nil {
			return nil, err
		}
		b.splitter = c
	}
	b.logger = b.logger.With("component", "bootstrapper")
	return b, nil
}

// Config returns the run parameters.
func (b *Bootstrapper) Config() Config {
	return b.cfg
}

// Run bootstraps targetIndex, or the configured index when targetIndex is
// empty. An index that already holds vectors is left untouched and reported
// with AlreadyPopulated set. Batch failures are recorded in the summary; only
// failures before the batch loop, or cancellation of ctx between batches,
// return an error.
func (b *Bootstrapper) Run(ctx context.Context, targetIndex string) (*core.RunSummary, error) {
	if targetIndex == "" {
		targetIndex = b.cfg.TargetIndex
	}
	if targetIndex == "" {
		return nil, ErrTargetIndexRequired
	}

	release, err := b.locks.acquire(ctx, targetIndex)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	logger := b.logger.With("index", targetIndex)
	summary := &core.RunSummary{TargetIndex: targetIndex, Batches: []core.BatchResult{}}

	if err := b.index.EnsureIndex(ctx, targetIndex); err != nil {
		return nil, fmt.Errorf("failed to ensure index %q: %w", targetIndex, err)
	}
	populated, err := b.index.HasVectors(ctx, targetIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to check index %q: %w", targetIndex, err)
	}
	if populated {
		logger.Info("index already populated, skipping bootstrap")
		summary.AlreadyPopulated = true
		summary.Duration = time.Since(start)
		return summary, nil
	}

	docs, err := b.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	if len(docs) == 0 {
		logger.Warn("no documents found")
		return nil, ErrNoDocumentsFound
	}
	summary.Loaded = len(docs)

	valid := make([]core.Document, 0, len(docs))
	for _, doc := range docs {
		if b.validator.IsValid(doc.PageContent) {
			valid = append(valid, doc)
		}
	}
	summary.Valid = len(valid)
	summary.Dropped = len(docs) - len(valid)
	logger.Info("validated documents", "loaded", summary.Loaded, "valid", summary.Valid, "dropped", summary.Dropped)

	enriched := core.Enrich(valid, b.sideRecords(ctx, logger))

	chunks, err := b.splitter.Split(enriched)
	if err != nil {
		return nil, fmt.Errorf("failed to split documents: %w", err)
	}
	summary.Chunks = len(chunks)

	batches := partition(chunks, b.cfg.BatchSize)
	logger.Info("split documents", "chunks", len(chunks), "batches", len(batches))

	b.progress.Start(len(batches))
	defer b.progress.Finish()

	for i, batch := range batches {
		if err := b.wait(ctx); err != nil {
			logger.Warn("bootstrap interrupted", "batch", i+1, "batches", len(batches), "upserted", summary.Upserted)
			return nil, err
		}
		logger.Info(fmt.Sprintf("Processing batch %d of %d", i+1, len(batches)), "size", len(batch))

		out := b.processBatch(ctx, logger, targetIndex, i, batch)
		summary.AddBatch(out.result)
		summary.ChunksDropped += out.dropped
		summary.Embedded += out.embedded
		b.progress.Increment(1)
	}

	summary.Duration = time.Since(start)
	logger.Info("bootstrap complete",
		"batches", len(summary.Batches),
		"upserted", summary.Upserted,
		"skipped", summary.Skipped,
		"duration", summary.Duration)
	return summary, nil
}

// sideRecords reads the side metadata. A failing store degrades to no records.
func (b *Bootstrapper) sideRecords(ctx context.Context, logger *slog.Logger) []core.SideRecord {
	if b.metadata == nil {
		return nil
	}
	records, err := b.metadata.Read(ctx)
	if err != nil {
		logger.Warn("side metadata unavailable, continuing without it", "err", err)
		return nil
	}
	return records
}

// wait blocks for the rate limiter and reports context cancellation.
func (b *Bootstrapper) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.limiter != nil {
		return b.limiter.Wait(ctx)
	}
	return nil
}

// partition splits chunks into consecutive groups of at most size.
func partition(chunks []core.Chunk, size int) [][]core.Chunk {
	batches := make([][]core.Chunk, 0, (len(chunks)+size-1)/size)
	for start := 0; start < len(chunks); start += size {
		batches = append(batches, chunks[start:min(start+size, len(chunks))])
	}
	return batches
}
