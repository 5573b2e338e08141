package core

import (
	"encoding/hex"
	"fmt"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// IDStrategy selects how unit IDs are generated.
type IDStrategy string

const (
	// IDStrategyRandom assigns a fresh UUID to every unit. Re-running against a
	// partially written index creates new vectors instead of overwriting.
	IDStrategyRandom IDStrategy = "random"

	// IDStrategyContent derives the ID from the chunk's source path, page and
	// offset so reruns overwrite the same vectors.
	IDStrategyContent IDStrategy = "content"
)

// IDGenerator produces the primary key for a chunk.
type IDGenerator func(chunk Chunk) string

// NewIDGenerator returns the generator for a strategy. The empty strategy
// selects IDStrategyRandom.
func NewIDGenerator(strategy IDStrategy) (IDGenerator, error) {
	switch strategy {
	case "", IDStrategyRandom:
		return RandomID, nil
	case IDStrategyContent:
		return ContentID, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIDStrategy, strategy)
	}
}

// RandomID ignores the chunk and returns a new UUID.
func RandomID(Chunk) string {
	return uuid.NewString()
}

// ContentID hashes the chunk's position with BLAKE2b.
// Identical positions always produce identical IDs.
func ContentID(chunk Chunk) string {
	source, _ := chunk.Metadata[MetaSource].(string)
	page := ""
	if p, ok := chunk.Metadata[MetaPage]; ok {
		page = fmt.Sprint(p)
	}
	return IDFromContent(fmt.Sprintf("%s\x00%s\x00%d", source, page, chunk.Offset))
}

// IDFromContent returns the hex BLAKE2b-128 digest of text.
func IDFromContent(text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
