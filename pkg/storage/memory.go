package storage

import (
	"context"
	"sync"

	"github.com/linguaviz/linguaviz/pkg/errors"
)

// MemoryBackend is an in-process backend for tests and development.
// Documents are copied on Put and Get so callers can't mutate stored state
// through shared slices.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string]map[string][]byte)}
}

// Ensure creates the named collections. Idempotent.
func (b *MemoryBackend) Ensure(ctx context.Context, collections ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range collections {
		if b.collections[c] == nil {
			b.collections[c] = make(map[string][]byte)
		}
	}
	return nil
}

// Put upserts a document.
func (b *MemoryBackend) Put(ctx context.Context, collection, id string, data []byte) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.collections[collection] == nil {
		b.collections[collection] = make(map[string][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	b.collections[collection][id] = cp
	return nil
}

// Get retrieves a document by ID.
func (b *MemoryBackend) Get(ctx context.Context, collection, id string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.collections[collection][id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "document not found: %s/%s", collection, id)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// Scan visits every document in the collection. The snapshot is taken under
// the read lock, so fn may safely call back into the backend.
func (b *MemoryBackend) Scan(ctx context.Context, collection string, fn ScanFunc) error {
	b.mu.RLock()
	snapshot := make(map[string][]byte, len(b.collections[collection]))
	for id, data := range b.collections[collection] {
		snapshot[id] = data
	}
	b.mu.RUnlock()

	for id, data := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(id, data); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a document. Deleting an absent document is a no-op.
func (b *MemoryBackend) Delete(ctx context.Context, collection, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.collections[collection], id)
	return nil
}

// Close does nothing for the memory backend.
func (b *MemoryBackend) Close() error { return nil }

// Ensure MemoryBackend implements Backend.
var _ Backend = (*MemoryBackend)(nil)
