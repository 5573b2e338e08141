package ai

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/vecseed/core"
)

// CachedEmbedder serves repeated texts from an in-process LRU cache.
// Only cache misses are sent upstream, still as a single request per call.
type CachedEmbedder struct {
	inner  Embedder
	cache  *lru.Cache[string, []float32]
	logger *slog.Logger
}

var _ Embedder = (*CachedEmbedder)(nil)

// NewCachedEmbedder wraps inner with a cache holding up to size vectors.
func NewCachedEmbedder(inner Embedder, size int) (*CachedEmbedder, error) {
	if inner == nil {
		return nil, ErrEmbedderRequired
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &CachedEmbedder{
		inner:  inner,
		cache:  cache,
		logger: slog.Default().With("component", "embedding-cache"),
	}, nil
}

// EmbedText returns the cached vector for text or fetches it.
func (c *CachedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := core.IDFromContent(text)
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := c.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, v)
	return v, nil
}

// EmbedTexts resolves cached texts locally and requests the rest in one call.
func (c *CachedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	keys := make([]string, len(texts))

	var (
		missTexts []string
		missIdx   []int
	)
	for i, text := range texts {
		keys[i] = core.IDFromContent(text)
		if v, ok := c.cache.Get(keys[i]); ok {
			result[i] = v
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	c.logger.Debug("embedding cache lookup", "texts", len(texts), "misses", len(missTexts))
	if len(missTexts) == 0 {
		return result, nil
	}

	fetched, err := c.inner.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if err := CheckEmbeddings(len(missTexts), fetched); err != nil {
		return nil, err
	}

	for j, i := range missIdx {
		result[i] = fetched[j]
		c.cache.Add(keys[i], fetched[j])
	}
	return result, nil
}

// Len returns the number of cached vectors.
func (c *CachedEmbedder) Len() int {
	return c.cache.Len()
}
