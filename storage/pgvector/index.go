// Package pgvector implements storage.VectorIndex on PostgreSQL with the
// pgvector extension.
package pgvector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/poiesic/vecseed/core"
	"github.com/poiesic/vecseed/storage"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS vector_indexes (
	name       TEXT PRIMARY KEY,
	dimensions INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS vectors (
	index_name TEXT NOT NULL REFERENCES vector_indexes(name) ON DELETE CASCADE,
	id         TEXT NOT NULL,
	embedding  vector NOT NULL,
	metadata   JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (index_name, id)
);
`

const upsertVector = `
INSERT INTO vectors (index_name, id, embedding, metadata)
VALUES ($1, $2, $3, $4)
ON CONFLICT (index_name, id) DO UPDATE
SET embedding = EXCLUDED.embedding, metadata = EXCLUDED.metadata, updated_at = now()`

// Index stores vectors in PostgreSQL.
type Index struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ storage.VectorIndex = (*Index)(nil)

// Open connects to dsn, verifies the connection and creates the schema if needed.
func Open(ctx context.Context, dsn string) (*Index, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	index := &Index{
		pool:   pool,
		logger: slog.Default().With("component", "pgvector-index"),
	}
	if err := index.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return index, nil
}

func (i *Index) migrate(ctx context.Context) error {
	if _, err := i.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (i *Index) Close() error {
	i.pool.Close()
	return nil
}

// EnsureIndex registers the index if it is not registered yet.
func (i *Index) EnsureIndex(ctx context.Context, name string) error {
	if name == "" {
		return storage.ErrInvalidIndexName
	}
	tag, err := i.pool.Exec(ctx,
		`INSERT INTO vector_indexes (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("failed to create index %q: %w", name, err)
	}
	if tag.RowsAffected() > 0 {
		i.logger.Info("creating vector index", "index", name)
	}
	return nil
}

// HasVectors reports whether at least one vector is stored under name.
func (i *Index) HasVectors(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := i.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM vectors WHERE index_name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to probe index %q: %w", name, err)
	}
	return exists, nil
}

// Count returns the number of vectors stored under name.
func (i *Index) Count(ctx context.Context, name string) (int, error) {
	var count int
	err := i.pool.QueryRow(ctx,
		`SELECT count(*) FROM vectors WHERE index_name = $1`, name).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count index %q: %w", name, err)
	}
	return count, nil
}

// Upsert writes vectors in sub-batches of batchSize, one transaction each.
func (i *Index) Upsert(ctx context.Context, name string, vectors []core.Vector, batchSize int) error {
	if name == "" {
		return storage.ErrInvalidIndexName
	}
	if _, err := storage.ValidateVectors(vectors); err != nil {
		return &storage.IndexWriteError{Index: name, Count: len(vectors), Err: err}
	}

	for _, r := range storage.SubBatches(len(vectors), batchSize) {
		batch := vectors[r[0]:r[1]]
		if err := i.writeBatch(ctx, name, batch); err != nil {
			i.logger.Error("vector upsert failed", "index", name, "offset", r[0], "count", len(batch), "err", err)
			return &storage.IndexWriteError{Index: name, Offset: r[0], Count: len(batch), Err: err}
		}
	}
	return nil
}

func (i *Index) writeBatch(ctx context.Context, name string, vectors []core.Vector) error {
	return pgx.BeginFunc(ctx, i.pool, func(tx pgx.Tx) error {
		var dims int
		err := tx.QueryRow(ctx,
			`SELECT dimensions FROM vector_indexes WHERE name = $1 FOR UPDATE`, name).Scan(&dims)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", storage.ErrIndexNotFound, name)
		}
		if err != nil {
			return err
		}

		width := len(vectors[0].Values)
		switch {
		case dims == 0:
			if _, err := tx.Exec(ctx,
				`UPDATE vector_indexes SET dimensions = $2 WHERE name = $1`, name, width); err != nil {
				return err
			}
		case dims != width:
			return fmt.Errorf("%w: index has %d, got %d", storage.ErrDimensionMismatch, dims, width)
		}

		batch := &pgx.Batch{}
		for _, v := range vectors {
			batch.Queue(upsertVector, name, v.ID, pgvector.NewVector(v.Values), jsonbMetadata(v.Metadata))
		}

		results := tx.SendBatch(ctx, batch)
		for idx := range vectors {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to upsert vector at index %d: %w", idx, err)
			}
		}
		return results.Close()
	})
}
