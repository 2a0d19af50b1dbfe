package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
)

var testNow = time.Date(2024, 5, 6, 8, 30, 0, 0, time.UTC)

func newMemoryStore() *repository.RecordStore {
	return repository.NewRecordStore(repository.NewMemoryBlobStore(), nil,
		repository.WithClock(func() time.Time { return testNow }))
}

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

// flakyBlobStore fails writes to the listed keys once armed.
type flakyBlobStore struct {
	mu       sync.Mutex
	inner    *repository.MemoryBlobStore
	failKeys map[string]bool
}

func newFlakyBlobStore() *flakyBlobStore {
	return &flakyBlobStore{inner: repository.NewMemoryBlobStore(), failKeys: map[string]bool{}}
}

func (f *flakyBlobStore) failWrites(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failKeys[key] = true
}

func (f *flakyBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return f.inner.Get(ctx, key)
}

func (f *flakyBlobStore) Set(ctx context.Context, key string, blob []byte) error {
	f.mu.Lock()
	fail := f.failKeys[key]
	f.mu.Unlock()
	if fail {
		return errors.New("quota exceeded")
	}
	return f.inner.Set(ctx, key, blob)
}
