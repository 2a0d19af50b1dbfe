package repository

import (
	"context"
	"sync"
)

// BlobStore is the key-value persistence provider behind the record store.
// Get reports found=false, with a nil error, when the key has never been set.
type BlobStore interface {
	Get(ctx context.Context, key string) (blob []byte, found bool, err error)
	Set(ctx context.Context, key string, blob []byte) error
}

// MemoryBlobStore keeps blobs in process memory. Used for tests and the
// default development driver.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBlobStore constructs an empty store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

// Get implements BlobStore.
func (m *MemoryBlobStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}

// Set implements BlobStore.
func (m *MemoryBlobStore) Set(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), blob...)
	return nil
}
