package ingestion

import (
	"context"
	"sync"
)

// indexLocks serializes runs per target index so that concurrent callers
// cannot both pass the populated check on an empty index.
type indexLocks struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newIndexLocks() *indexLocks {
	return &indexLocks{locks: make(map[string]chan struct{})}
}

// acquire blocks until name is free or ctx is done. The returned func
// releases the lock.
func (l *indexLocks) acquire(ctx context.Context, name string) (func(), error) {
	l.mu.Lock()
	sem, ok := l.locks[name]
	if !ok {
		sem = make(chan struct{}, 1)
		l.locks[name] = sem
	}
	l.mu.Unlock()

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
