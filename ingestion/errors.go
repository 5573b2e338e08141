package ingestion

import "errors"

var (
	// ErrNoDocumentsFound is returned when the document source yields nothing.
	ErrNoDocumentsFound = errors.New("No documents found")

	// ErrDocumentSourceRequired is returned when a document source is not provided.
	ErrDocumentSourceRequired = errors.New("document source required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrVectorIndexRequired is returned when a vector index is not provided.
	ErrVectorIndexRequired = errors.New("vector index required")

	// ErrTargetIndexRequired is returned when a run has no index name.
	ErrTargetIndexRequired = errors.New("target index required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
