// Package mock provides a recording in-memory test double for storage.VectorIndex.
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/vecseed/core"
	"github.com/poiesic/vecseed/storage"
)

// UpsertCall records one sub-batch write.
type UpsertCall struct {
	Index   string
	Vectors []core.Vector
}

// MockIndex is a test double for storage.VectorIndex.
// Vectors are kept in memory; function fields override individual methods.
type MockIndex struct {
	// EnsureIndexFunc is called by EnsureIndex if set.
	EnsureIndexFunc func(ctx context.Context, name string) error

	// HasVectorsFunc is called by HasVectors if set.
	HasVectorsFunc func(ctx context.Context, name string) (bool, error)

	// UpsertBatchFunc is called for every sub-batch before it is stored.
	// Returning an error fails that sub-batch.
	UpsertBatchFunc func(ctx context.Context, name string, vectors []core.Vector) error

	mu          sync.Mutex
	indexes     map[string]map[string]core.Vector
	ensureCalls []string
	probeCalls  []string
	upserts     []UpsertCall
	closed      bool
}

var _ storage.VectorIndex = (*MockIndex)(nil)

// NewMockIndex creates an empty mock index store.
func NewMockIndex() *MockIndex {
	return &MockIndex{indexes: make(map[string]map[string]core.Vector)}
}

// EnsureIndex records the call and creates the index if absent.
func (m *MockIndex) EnsureIndex(ctx context.Context, name string) error {
	m.mu.Lock()
	m.ensureCalls = append(m.ensureCalls, name)
	fn := m.EnsureIndexFunc
	m.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, name); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.indexes[name]; !ok {
		m.indexes[name] = make(map[string]core.Vector)
	}
	return nil
}

// HasVectors records the call and reports whether the index holds vectors.
func (m *MockIndex) HasVectors(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	m.probeCalls = append(m.probeCalls, name)
	fn := m.HasVectorsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.indexes[name]) > 0, nil
}

// Upsert stores vectors in sub-batches, recording each one.
func (m *MockIndex) Upsert(ctx context.Context, name string, vectors []core.Vector, batchSize int) error {
	for _, r := range storage.SubBatches(len(vectors), batchSize) {
		batch := append([]core.Vector(nil), vectors[r[0]:r[1]]...)

		m.mu.Lock()
		m.upserts = append(m.upserts, UpsertCall{Index: name, Vectors: batch})
		fn := m.UpsertBatchFunc
		m.mu.Unlock()

		if fn != nil {
			if err := fn(ctx, name, batch); err != nil {
				return &storage.IndexWriteError{Index: name, Offset: r[0], Count: len(batch), Err: err}
			}
		}

		m.mu.Lock()
		idx, ok := m.indexes[name]
		if !ok {
			m.mu.Unlock()
			return &storage.IndexWriteError{Index: name, Offset: r[0], Count: len(batch), Err: storage.ErrIndexNotFound}
		}
		for _, v := range batch {
			idx[v.ID] = v
		}
		m.mu.Unlock()
	}
	return nil
}

// Count returns the number of stored vectors.
func (m *MockIndex) Count(ctx context.Context, name string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.indexes[name]), nil
}

// Close marks the store closed.
func (m *MockIndex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Seed stores vectors directly, bypassing call recording.
func (m *MockIndex) Seed(name string, vectors ...core.Vector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.indexes[name]
	if !ok {
		idx = make(map[string]core.Vector)
		m.indexes[name] = idx
	}
	for _, v := range vectors {
		idx[v.ID] = v
	}
}

// Vectors returns the stored vectors of an index.
func (m *MockIndex) Vectors(name string) map[string]core.Vector {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]core.Vector, len(m.indexes[name]))
	for id, v := range m.indexes[name] {
		out[id] = v
	}
	return out
}

// EnsureCalls returns the index names passed to EnsureIndex.
func (m *MockIndex) EnsureCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ensureCalls...)
}

// ProbeCalls returns the index names passed to HasVectors.
func (m *MockIndex) ProbeCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.probeCalls...)
}

// UpsertCalls returns every recorded sub-batch write, including failed ones.
func (m *MockIndex) UpsertCalls() []UpsertCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]UpsertCall(nil), m.upserts...)
}

// UpsertSizes returns the size of each recorded sub-batch write.
func (m *MockIndex) UpsertSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sizes := make([]int, len(m.upserts))
	for i, c := range m.upserts {
		sizes[i] = len(c.Vectors)
	}
	return sizes
}

// Closed reports whether Close has been called.
func (m *MockIndex) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
