package loader

import (
	"context"
	"maps"
	"os"
	"slices"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
)

// Extractor turns one file into page-level documents.
type Extractor func(ctx context.Context, path string) ([]schema.Document, error)

// ExtractPDF returns one document per PDF page. Each page carries the
// loader's "page" and "total_pages" metadata.
func ExtractPDF(ctx context.Context, path string) ([]schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return documentloaders.NewPDF(f, info.Size()).Load(ctx)
}

// ExtractText returns the whole file as a single document.
func ExtractText(ctx context.Context, path string) ([]schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return documentloaders.NewText(f).Load(ctx)
}

// builtinExtractors maps lower-case extensions to extractors.
var builtinExtractors = map[string]Extractor{
	".pdf": ExtractPDF,
	".txt": ExtractText,
	".md":  ExtractText,
}

// SupportedExtensions lists the extensions with a built-in extractor, sorted.
func SupportedExtensions() []string {
	return slices.Sorted(maps.Keys(builtinExtractors))
}
