// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package vecseed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/vecseed/ai"
	"github.com/poiesic/vecseed/ai/gemini"
	"github.com/poiesic/vecseed/ai/openai"
	"github.com/poiesic/vecseed/core"
	"github.com/poiesic/vecseed/ingestion"
	"github.com/poiesic/vecseed/loader"
	"github.com/poiesic/vecseed/storage"
	"github.com/poiesic/vecseed/storage/badger"
	"github.com/poiesic/vecseed/storage/pgvector"
)

// Supported index backends.
const (
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// Config is the full configuration of a seeder. Every value is explicit;
// nothing below the command line reads the environment.
type Config struct {
	// AI selects and configures the embedding provider.
	AI *ai.Config

	// Ingestion holds the run parameters: target index, chunking, batching,
	// retries and throttling.
	Ingestion ingestion.Config

	// DocsPath is the corpus root.
	DocsPath string

	// MetadataPath is the side metadata JSON file. Empty disables enrichment.
	MetadataPath string

	// Extensions filters corpus files. Default: .pdf.
	Extensions []string

	// LoaderConcurrency is the number of files extracted at once. Zero uses
	// the loader default.
	LoaderConcurrency int

	// IndexBackend is "badger" or "postgres". Default: badger.
	IndexBackend string

	// BadgerPath is the BadgerDB directory for the badger backend.
	BadgerPath string

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string

	// EmbeddingCacheSize enables an LRU cache of embeddings when positive.
	EmbeddingCacheSize int
}

// DefaultConfig returns a Config using a local OpenAI-compatible embedder and
// an embedded BadgerDB index.
func DefaultConfig() Config {
	return Config{
		AI:           ai.DefaultConfig(),
		Ingestion:    ingestion.DefaultConfig(),
		DocsPath:     "docs",
		Extensions:   append([]string(nil), loader.DefaultExtensions...),
		IndexBackend: BackendBadger,
		BadgerPath:   "data",
	}
}

// Validate checks the configuration. The AI section is only validated when
// the seeder has to build its own provider.
func (c Config) Validate() error {
	if err := c.Ingestion.Validate(); err != nil {
		return err
	}
	if c.DocsPath == "" {
		return errors.New("config: DocsPath is required")
	}
	switch strings.ToLower(c.IndexBackend) {
	case "", BackendBadger:
		if c.BadgerPath == "" {
			return errors.New("config: BadgerPath is required for the badger backend")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("config: PostgresDSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.IndexBackend)
	}
	if c.EmbeddingCacheSize < 0 {
		return errors.New("config: EmbeddingCacheSize must not be negative")
	}
	return nil
}

// Seeder wires a document loader, an embedding provider and a vector index
// into a Bootstrapper.
type Seeder struct {
	cfg          Config
	index        storage.VectorIndex
	provider     ai.AIProvider
	bootstrapper *ingestion.Bootstrapper
	logger       *slog.Logger
}

// Option configures a Seeder.
type Option func(*seederOptions)

type seederOptions struct {
	logger   *slog.Logger
	provider ai.AIProvider
	index    storage.VectorIndex
	source   loader.DocumentSource
	progress ingestion.Progress
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *seederOptions) {
		o.logger = logger
	}
}

// WithProvider supplies the embedding provider instead of building one from
// Config.AI. The seeder closes it on Close.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *seederOptions) {
		o.provider = provider
	}
}

// WithIndex supplies the vector index instead of opening one from the backend
// settings. The seeder closes it on Close.
func WithIndex(index storage.VectorIndex) Option {
	return func(o *seederOptions) {
		o.index = index
	}
}

// WithDocumentSource replaces the directory loader.
func WithDocumentSource(source loader.DocumentSource) Option {
	return func(o *seederOptions) {
		o.source = source
	}
}

// WithProgress reports batch progress during runs.
func WithProgress(progress ingestion.Progress) Option {
	return func(o *seederOptions) {
		o.progress = progress
	}
}

// Open builds every collaborator described by cfg. On error, anything
// already opened is closed again.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Seeder, error) {
	options := &seederOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	source := options.source
	if source == nil {
		loaderOpts := []loader.Option{loader.WithLogger(options.logger)}
		if len(cfg.Extensions) > 0 {
			loaderOpts = append(loaderOpts, loader.WithExtensions(cfg.Extensions...))
		}
		if cfg.LoaderConcurrency > 0 {
			loaderOpts = append(loaderOpts, loader.WithConcurrency(cfg.LoaderConcurrency))
		}
		dl, err := loader.NewDirectoryLoader(cfg.DocsPath, loaderOpts...)
		if err != nil {
			return nil, err
		}
		source = dl
	}

	index := options.index
	if index == nil {
		var err error
		index, err = openIndex(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = newProvider(ctx, cfg.AI)
		if err != nil {
			index.Close()
			return nil, err
		}
	}

	embedder := provider.Embedder()
	if cfg.EmbeddingCacheSize > 0 {
		cached, err := ai.NewCachedEmbedder(embedder, cfg.EmbeddingCacheSize)
		if err != nil {
			provider.Close()
			index.Close()
			return nil, err
		}
		embedder = cached
	}

	bootOpts := []ingestion.Option{ingestion.WithLogger(options.logger)}
	if cfg.MetadataPath != "" {
		bootOpts = append(bootOpts, ingestion.WithMetadataStore(loader.NewJSONMetadataStore(cfg.MetadataPath)))
	}
	if options.progress != nil {
		bootOpts = append(bootOpts, ingestion.WithProgress(options.progress))
	}

	bootstrapper, err := ingestion.NewBootstrapper(source, embedder, index, cfg.Ingestion, bootOpts...)
	if err != nil {
		provider.Close()
		index.Close()
		return nil, err
	}

	return &Seeder{
		cfg:          cfg,
		index:        index,
		provider:     provider,
		bootstrapper: bootstrapper,
		logger:       options.logger,
	}, nil
}

func openIndex(ctx context.Context, cfg Config) (storage.VectorIndex, error) {
	switch strings.ToLower(cfg.IndexBackend) {
	case BackendPostgres:
		return pgvector.Open(ctx, cfg.PostgresDSN)
	default:
		return badger.Open(cfg.BadgerPath)
	}
}

func newProvider(ctx context.Context, cfg *ai.Config) (ai.AIProvider, error) {
	if cfg == nil {
		cfg = ai.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ai.ProviderGemini:
		return gemini.NewProvider(ctx, cfg)
	default:
		return openai.NewProvider(cfg)
	}
}

// Close releases the provider and the index.
func (s *Seeder) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.index.Close(); err != nil {
		s.logger.Error("error closing vector index", "err", err)
		return err
	}
	return nil
}

// Bootstrapper returns the configured Bootstrapper.
func (s *Seeder) Bootstrapper() *ingestion.Bootstrapper {
	return s.bootstrapper
}

// Index returns the vector index.
func (s *Seeder) Index() storage.VectorIndex {
	return s.index
}

// Config returns the configuration the seeder was opened with.
func (s *Seeder) Config() Config {
	return s.cfg
}

// Run bootstraps targetIndex, or the configured index when it is empty.
func (s *Seeder) Run(ctx context.Context, targetIndex string) (*core.RunSummary, error) {
	return s.bootstrapper.Run(ctx, targetIndex)
}

// IndexStatus describes the contents of an index.
type IndexStatus struct {
	TargetIndex string `json:"targetIndex"`
	Populated   bool   `json:"populated"`
	Count       int    `json:"count"`
}

// Status reports whether targetIndex holds vectors and how many. It does not
// create the index.
func (s *Seeder) Status(ctx context.Context, targetIndex string) (IndexStatus, error) {
	if targetIndex == "" {
		targetIndex = s.cfg.Ingestion.TargetIndex
	}
	if targetIndex == "" {
		return IndexStatus{}, ingestion.ErrTargetIndexRequired
	}

	populated, err := s.index.HasVectors(ctx, targetIndex)
	if err != nil {
		return IndexStatus{}, err
	}
	count, err := s.index.Count(ctx, targetIndex)
	if err != nil && !errors.Is(err, storage.ErrIndexNotFound) {
		return IndexStatus{}, err
	}
	return IndexStatus{TargetIndex: targetIndex, Populated: populated, Count: count}, nil
}
