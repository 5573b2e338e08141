package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedExtension is returned for a file extension without an extractor.
	ErrUnsupportedExtension = errors.New("unsupported file extension")

	// ErrRootRequired is returned when no root directory is configured.
	ErrRootRequired = errors.New("document root required")

	// ErrExtractorPanic wraps a panic raised while extracting a file.
	ErrExtractorPanic = errors.New("extractor panicked")
)

// ExtractError reports a file whose content could not be extracted.
type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// MetadataStoreError reports an unreadable or malformed side metadata file.
type MetadataStoreError struct {
	Path string
	Err  error
}

func (e *MetadataStoreError) Error() string {
	return fmt.Sprintf("metadata store %s: %v", e.Path, e.Err)
}

func (e *MetadataStoreError) Unwrap() error {
	return e.Err
}
