package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/vecseed/core"
)

// DefaultExtensions is the extension filter used when none is configured.
var DefaultExtensions = []string{".pdf"}

// DocumentSource produces the raw page-level documents of a corpus.
type DocumentSource interface {
	Load(ctx context.Context) ([]core.Document, error)
}

// DirectoryLoader walks a directory tree and extracts every file that matches
// its extension filter. Files are extracted concurrently on a worker pool;
// the result is ordered by file path and then by page.
type DirectoryLoader struct {
	root       string
	extractors map[string]Extractor
	workers    int
	logger     *slog.Logger
}

var _ DocumentSource = (*DirectoryLoader)(nil)

// Option configures a DirectoryLoader.
type Option func(*DirectoryLoader) error

// WithExtensions restricts loading to files with the given extensions.
// Each extension needs a built-in extractor.
func WithExtensions(exts ...string) Option {
	return func(l *DirectoryLoader) error {
		extractors := make(map[string]Extractor, len(exts))
		for _, ext := range exts {
			ext = normalizeExt(ext)
			if ext == "" {
				continue
			}
			fn, ok := builtinExtractors[ext]
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
			}
			extractors[ext] = fn
		}
		if len(extractors) == 0 {
			return fmt.Errorf("%w: empty extension filter", ErrUnsupportedExtension)
		}
		l.extractors = extractors
		return nil
	}
}

// WithExtractor registers a custom extractor for an extension.
func WithExtractor(ext string, fn Extractor) Option {
	return func(l *DirectoryLoader) error {
		l.extractors[normalizeExt(ext)] = fn
		return nil
	}
}

// WithConcurrency sets how many files are extracted at once.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithConcurrency(n int) Option {
	return func(l *DirectoryLoader) error {
		if n < 1 {
			n = 1
		}
		l.workers = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *DirectoryLoader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewDirectoryLoader creates a loader rooted at root.
func NewDirectoryLoader(root string, opts ...Option) (*DirectoryLoader, error) {
	if root == "" {
		return nil, ErrRootRequired
	}

	l := &DirectoryLoader{
		root:       root,
		extractors: make(map[string]Extractor),
		workers:    max(runtime.NumCPU()/2, 1),
		logger:     slog.Default(),
	}
	for _, ext := range DefaultExtensions {
		l.extractors[ext] = builtinExtractors[ext]
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "directory-loader")
	return l, nil
}

// Extensions returns the active extension filter, sorted.
func (l *DirectoryLoader) Extensions() []string {
	return slices.Sorted(maps.Keys(l.extractors))
}

// Load extracts every matching file under the root. Any file that fails to
// extract fails the whole load.
func (l *DirectoryLoader) Load(ctx context.Context) ([]core.Document, error) {
	paths, err := l.walk()
	if err != nil {
		return nil, err
	}
	l.logger.Info("loading documents", "root", l.root, "files", len(paths))
	if len(paths) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(min(l.workers, len(paths)))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([][]core.Document, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = l.extract(ctx, path)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	var docs []core.Document
	for i := range paths {
		if errs[i] != nil {
			return nil, &ExtractError{Path: paths[i], Err: errs[i]}
		}
		docs = append(docs, results[i]...)
	}

	l.logger.Info("loaded documents", "files", len(paths), "documents", len(docs))
	return docs, nil
}

// walk returns the sorted paths of all matching regular files.
func (l *DirectoryLoader) walk() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := l.extractors[normalizeExt(filepath.Ext(path))]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", l.root, err)
	}
	slices.Sort(paths)
	return paths, nil
}

func (l *DirectoryLoader) extract(ctx context.Context, path string) (docs []core.Document, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fn := l.extractors[normalizeExt(filepath.Ext(path))]

	// PDF parsing panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("%w: %v", ErrExtractorPanic, r)
		}
	}()

	pages, err := fn(ctx, path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("extracted file", "path", path, "pages", len(pages))

	docs = make([]core.Document, len(pages))
	for i, page := range pages {
		metadata := make(map[string]any, len(page.Metadata)+1)
		maps.Copy(metadata, page.Metadata)
		metadata[core.MetaSource] = path
		docs[i] = core.Document{PageContent: page.PageContent, Metadata: metadata}
	}
	return docs, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
