package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrEmbeddingCountMismatch is returned when a provider answers with a
	// different number of vectors than texts it was given.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrUnknownProvider is returned for an unrecognized provider name.
	ErrUnknownProvider = errors.New("unknown embedding provider")

	// ErrEmbedderRequired is returned when a nil embedder is supplied.
	ErrEmbedderRequired = errors.New("embedder required")
)

// ProviderError reports a failed embedding request for a batch of texts.
type ProviderError struct {
	Inputs int
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider failed for %d inputs: %v", e.Inputs, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// CheckEmbeddings verifies that a provider returned one vector per input.
func CheckEmbeddings(inputs int, embeddings [][]float32) error {
	if len(embeddings) != inputs {
		return &ProviderError{
			Inputs: inputs,
			Err:    fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingCountMismatch, inputs, len(embeddings)),
		}
	}
	return nil
}
