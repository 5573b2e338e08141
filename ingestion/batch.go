package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/vecseed/ai"
	"github.com/poiesic/vecseed/core"
)

type batchOutcome struct {
	result   core.BatchResult
	dropped  int
	embedded int
}

// processBatch embeds and writes one outer batch. It never returns an error:
// every failure, including a panic, becomes a skipped result.
func (b *Bootstrapper) processBatch(ctx context.Context, logger *slog.Logger, target string, index int, chunks []core.Chunk) (out batchOutcome) {
	out.result = core.BatchResult{Index: index, Size: len(chunks), Status: core.BatchSkipped}
	logger = logger.With("batch", index+1, "size", len(chunks))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("batch panicked, skipping", "panic", r)
			out.result.Status = core.BatchSkipped
			out.result.VectorCount = 0
			out.result.Reason = fmt.Sprintf("panic: %v", r)
		}
	}()

	units := make([]core.Unit, 0, len(chunks))
	for _, chunk := range chunks {
		if !b.validator.IsValid(chunk.PageContent) {
			out.dropped++
			continue
		}
		units = append(units, core.NewUnit(chunk, b.newID))
	}
	if len(units) == 0 {
		logger.Warn("no valid chunks in batch, skipping")
		out.result.Reason = "no valid chunks"
		return out
	}

	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.PageContent
	}

	values, err := b.embed(ctx, logger, texts)
	if err != nil {
		logger.Error("embedding failed, skipping batch", "err", err)
		out.result.Reason = err.Error()
		return out
	}
	out.embedded = len(values)

	vectors := make([]core.Vector, len(units))
	for i, u := range units {
		v := values[i]
		if b.cfg.Normalize {
			v = NormalizeVector(v)
		}
		vectors[i] = core.NewVector(u, v)
	}

	if err := b.index.Upsert(ctx, target, vectors, b.cfg.UpsertBatchSize); err != nil {
		logger.Error("upsert failed, skipping batch", "err", err)
		out.result.Reason = err.Error()
		return out
	}

	out.result.Status = core.BatchCompleted
	out.result.VectorCount = len(vectors)
	logger.Debug("batch completed", "vectors", len(vectors))
	return out
}

// embed makes one provider call per attempt and checks the vector count.
func (b *Bootstrapper) embed(ctx context.Context, logger *slog.Logger, texts []string) ([][]float32, error) {
	var values [][]float32
	err := RetryWithBackoff(ctx, logger, func() error {
		v, err := b.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		if err := ai.CheckEmbeddings(len(texts), v); err != nil {
			return err
		}
		values = v
		return nil
	}, b.cfg.MaxRetries+1, b.cfg.RetryDelay)
	if err != nil {
		var perr *ai.ProviderError
		if !errors.As(err, &perr) {
			err = &ai.ProviderError{Inputs: len(texts), Err: err}
		}
		return nil, err
	}
	return values, nil
}
