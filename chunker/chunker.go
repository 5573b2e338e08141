// Package chunker splits documents into overlapping text chunks.
package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/vecseed/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the maximum chunk length in runes.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the maximum overlap between neighbouring chunks in runes.
	DefaultChunkOverlap = 200
)

// ErrInvalidConfig is returned for an unusable size/overlap combination.
var ErrInvalidConfig = errors.New("invalid chunker config")

// Config holds chunking parameters.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
}

// DefaultConfig returns the default chunking parameters.
func DefaultConfig() Config {
	return Config{ChunkSize: DefaultChunkSize, ChunkOverlap: DefaultChunkOverlap}
}

// Validate checks that size is positive and overlap lies in [0, size).
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidConfig, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be in [0, %d)", ErrInvalidConfig, c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

// Chunker splits documents with langchaingo's recursive character splitter.
// Lengths are measured in runes.
type Chunker struct {
	cfg      Config
	splitter textsplitter.RecursiveCharacter
}

// New creates a Chunker for cfg.
func New(cfg Config) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{
		cfg: cfg,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.ChunkSize),
			textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
	}, nil
}

// Config returns the chunking parameters.
func (c *Chunker) Config() Config {
	return c.cfg
}

// Split chunks every document in order. Each chunk carries a copy of its
// parent's metadata plus a "loc" object with the chunk's rune offset and length.
func (c *Chunker) Split(docs []core.Document) ([]core.Chunk, error) {
	var chunks []core.Chunk
	for _, doc := range docs {
		texts, err := c.splitter.SplitText(doc.PageContent)
		if err != nil {
			return nil, fmt.Errorf("failed to split %s: %w", doc.Source(), err)
		}

		cursor := 0
		prevStart := -1
		for _, text := range texts {
			if strings.TrimSpace(text) == "" {
				continue
			}
			start := locate(doc.PageContent, text, prevStart+1, cursor)
			prevStart = start
			cursor = start + len(text)

			metadata := doc.Clone().Metadata
			offset := utf8.RuneCountInString(doc.PageContent[:start])
			metadata[core.MetaLocation] = map[string]any{
				"offset": offset,
				"length": utf8.RuneCountInString(text),
			}
			chunks = append(chunks, core.Chunk{
				PageContent: text,
				Metadata:    metadata,
				Offset:      offset,
			})
		}
	}
	return chunks, nil
}

// locate returns the byte offset of chunk in text, searching from `from`.
// When the splitter rewrote whitespace and the chunk is not a verbatim
// substring, the end of the previous chunk is used instead.
func locate(text, chunk string, from, fallback int) int {
	if from < len(text) {
		if idx := strings.Index(text[from:], chunk); idx >= 0 {
			return from + idx
		}
	}
	return min(fallback, len(text))
}
