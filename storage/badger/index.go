package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/vecseed/core"
	"github.com/poiesic/vecseed/storage"
)

// Index implements storage.VectorIndex on an embedded BadgerDB.
//
// Each index has a registry entry holding its vector dimension (0 until the
// first write) and one key per vector.
type Index struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.VectorIndex = (*Index)(nil)

// NewIndex creates a vector index store on top of backend.
// The store takes ownership of the backend and closes it on Close.
func NewIndex(backend *Backend) (*Index, error) {
	if backend == nil {
		return nil, errors.New("badger: backend required")
	}
	return &Index{
		backend: backend,
		logger:  slog.Default().With("component", "badger-index"),
	}, nil
}

// Open opens (or creates) a BadgerDB directory and returns a vector index store.
func Open(dirPath string) (storage.VectorIndex, error) {
	backend, err := OpenBackend(dirPath, false)
	if err != nil {
		return nil, err
	}
	return NewIndex(backend)
}

// Close closes the underlying database.
func (i *Index) Close() error {
	return i.backend.Close()
}

// EnsureIndex registers the index if it is not registered yet.
func (i *Index) EnsureIndex(ctx context.Context, name string) error {
	if err := checkIndexName(name); err != nil {
		return err
	}
	return i.backend.Update(func(tx *badger.Txn) error {
		_, err := tx.Get(makeIndexKey(name))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		i.logger.Info("creating vector index", "index", name)
		return tx.Set(makeIndexKey(name), marshalDims(0))
	})
}

// HasVectors reports whether at least one vector is stored under name.
func (i *Index) HasVectors(ctx context.Context, name string) (bool, error) {
	if err := checkIndexName(name); err != nil {
		return false, err
	}
	found := false
	err := i.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeVectorPrefix(name)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		iter.Rewind()
		found = iter.Valid()
		return nil
	})
	return found, err
}

// Count returns the number of vectors stored under name.
func (i *Index) Count(ctx context.Context, name string) (int, error) {
	if err := checkIndexName(name); err != nil {
		return 0, err
	}
	count := 0
	err := i.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeVectorPrefix(name)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Upsert writes vectors in sub-batches of batchSize, one transaction each.
func (i *Index) Upsert(ctx context.Context, name string, vectors []core.Vector, batchSize int) error {
	if err := checkIndexName(name); err != nil {
		return err
	}
	if _, err := storage.ValidateVectors(vectors); err != nil {
		return &storage.IndexWriteError{Index: name, Count: len(vectors), Err: err}
	}

	for _, r := range storage.SubBatches(len(vectors), batchSize) {
		batch := vectors[r[0]:r[1]]
		if err := ctx.Err(); err != nil {
			return &storage.IndexWriteError{Index: name, Offset: r[0], Count: len(batch), Err: err}
		}
		if err := i.writeBatch(name, batch); err != nil {
			i.logger.Error("vector upsert failed", "index", name, "offset", r[0], "count", len(batch), "err", err)
			return &storage.IndexWriteError{Index: name, Offset: r[0], Count: len(batch), Err: err}
		}
		i.logger.Debug("upserted vectors", "index", name, "offset", r[0], "count", len(batch))
	}
	return nil
}

func (i *Index) writeBatch(name string, batch []core.Vector) error {
	return i.backend.Update(func(tx *badger.Txn) error {
		dims, err := readDims(tx, name)
		if err != nil {
			return err
		}
		width := len(batch[0].Values)
		if dims == 0 {
			if err := tx.Set(makeIndexKey(name), marshalDims(width)); err != nil {
				return err
			}
		} else if dims != width {
			return fmt.Errorf("%w: index has %d, got %d", storage.ErrDimensionMismatch, dims, width)
		}

		for _, v := range batch {
			value, err := storage.MarshalVector(v)
			if err != nil {
				return err
			}
			if err := tx.Set(makeVectorKey(name, v.ID), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns a stored vector by ID.
func (i *Index) Get(ctx context.Context, name, id string) (core.Vector, error) {
	var v core.Vector
	err := i.backend.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(name, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			v, err = storage.UnmarshalVector(val)
			return err
		})
	})
	return v, err
}

func readDims(tx *badger.Txn, name string) (int, error) {
	item, err := tx.Get(makeIndexKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, fmt.Errorf("%w: %s", storage.ErrIndexNotFound, name)
	}
	if err != nil {
		return 0, err
	}
	var dims int
	err = item.Value(func(val []byte) error {
		dims, _, err = varint.Int.Unmarshal(val)
		return err
	})
	return dims, err
}

func marshalDims(dims int) []byte {
	buf := make([]byte, varint.Int.Size(dims))
	varint.Int.Marshal(dims, buf)
	return buf
}
