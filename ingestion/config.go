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


package ingestion

import (
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/vecseed/chunker"
	"github.com/poiesic/vecseed/core"
	"github.com/poiesic/vecseed/storage"
)

const (
	// DefaultBatchSize is the number of chunks embedded per provider call.
	DefaultBatchSize = 5

	// DefaultRetryDelay is the base delay between embedding retries.
	DefaultRetryDelay = 500 * time.Millisecond
)

// Config holds the parameters of a bootstrap run.
type Config struct {
	// TargetIndex is the index used when Run is called without a name.
	TargetIndex string

	// ChunkSize and ChunkOverlap are measured in runes.
	ChunkSize    int
	ChunkOverlap int

	// BatchSize is the number of chunks per outer batch. Default: 5.
	BatchSize int

	// UpsertBatchSize is the number of vectors per index write. Default: 2.
	UpsertBatchSize int

	// MaxContentLength is the exclusive upper bound on embeddable text, in runes.
	MaxContentLength int

	// IDStrategy selects how vector IDs are generated. Default: random.
	IDStrategy core.IDStrategy

	// MaxRetries is the number of extra embedding attempts per batch. Default: 0.
	MaxRetries int

	// RetryDelay is the base backoff delay, doubled on each retry.
	RetryDelay time.Duration

	// BatchesPerSecond throttles outer batches. Zero disables throttling.
	BatchesPerSecond float64

	// Normalize scales vectors to unit length before they are written.
	Normalize bool
}

// DefaultConfig returns the default bootstrap parameters.
func DefaultConfig() Config {
	return Config{
		ChunkSize:        chunker.DefaultChunkSize,
		ChunkOverlap:     chunker.DefaultChunkOverlap,
		BatchSize:        DefaultBatchSize,
		UpsertBatchSize:  storage.DefaultUpsertBatchSize,
		MaxContentLength: core.DefaultMaxContentLength,
		IDStrategy:       core.IDStrategyRandom,
		RetryDelay:       DefaultRetryDelay,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("ingestion config: BatchSize must be positive, got %d", c.BatchSize)
	}
	if c.UpsertBatchSize <= 0 {
		return fmt.Errorf("ingestion config: UpsertBatchSize must be positive, got %d", c.UpsertBatchSize)
	}
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("ingestion config: MaxContentLength must be positive, got %d", c.MaxContentLength)
	}
	if c.ChunkSize >= c.MaxContentLength {
		return fmt.Errorf("ingestion config: ChunkSize %d must be below MaxContentLength %d", c.ChunkSize, c.MaxContentLength)
	}
	if c.MaxRetries < 0 {
		return errors.New("ingestion config: MaxRetries must not be negative")
	}
	if c.RetryDelay < 0 {
		return errors.New("ingestion config: RetryDelay must not be negative")
	}
	if c.BatchesPerSecond < 0 {
		return errors.New("ingestion config: BatchesPerSecond must not be negative")
	}
	if _, err := core.NewIDGenerator(c.IDStrategy); err != nil {
		return fmt.Errorf("ingestion config: %w", err)
	}
	return chunker.Config{ChunkSize: c.ChunkSize, ChunkOverlap: c.ChunkOverlap}.Validate()
}
