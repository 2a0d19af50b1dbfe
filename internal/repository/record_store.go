package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

// Fallback reasons reported when a load is answered with seed data.
const (
	FallbackReadFailed = "read_failed"
	FallbackCorrupted  = "corrupted"
)

// Collection names a persisted record sequence and its first-run seed.
type Collection[T any] struct {
	Name string
	Seed func(now time.Time) []T
}

func (c Collection[T]) seed(now time.Time) []T {
	if c.Seed == nil {
		return []T{}
	}
	return c.Seed(now)
}

// StoreObserver receives record store instrumentation.
type StoreObserver interface {
	ObserveStoreOperation(op, collection string, duration time.Duration, err error)
	RecordStoreFallback(collection, reason string)
}

// RecordStore reads and replaces whole collections on a BlobStore. Every
// read-modify-write on one collection runs under that collection's lock.
type RecordStore struct {
	blobs    BlobStore
	prefix   string
	logger   *zap.Logger
	observer StoreObserver
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	seedOnce sync.Once
	seededAt time.Time
}

// RecordStoreOption configures the record store.
type RecordStoreOption func(*RecordStore)

// WithKeyPrefix namespaces every collection key.
func WithKeyPrefix(prefix string) RecordStoreOption {
	return func(s *RecordStore) {
		s.prefix = prefix
	}
}

// WithStoreObserver attaches instrumentation.
func WithStoreObserver(observer StoreObserver) RecordStoreOption {
	return func(s *RecordStore) {
		s.observer = observer
	}
}

// WithClock overrides the clock used to stamp seed data. The seed is stamped
// once, on first use, so repeated loads of an unwritten collection agree.
func WithClock(now func() time.Time) RecordStoreOption {
	return func(s *RecordStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewRecordStore constructs a record store over blobs.
func NewRecordStore(blobs BlobStore, logger *zap.Logger, opts ...RecordStoreOption) *RecordStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RecordStore{
		blobs:  blobs,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load returns the collection's records. An absent key yields the seed; so
// do an unreadable store and a malformed payload, which are logged and
// counted but never returned as errors.
func Load[T any](ctx context.Context, s *RecordStore, c Collection[T]) []T {
	blob, found, err := s.get(ctx, c.Name)
	if err != nil {
		s.fallback(c.Name, FallbackReadFailed, err)
		return c.seed(s.seedTime())
	}
	records, err := decodeOrDefault(blob, found, func() []T { return c.seed(s.seedTime()) })
	if err != nil {
		s.fallback(c.Name, FallbackCorrupted, err)
	}
	return records
}

// Save replaces the whole collection. Write failures surface as ErrStoreUnavailable.
func Save[T any](ctx context.Context, s *RecordStore, c Collection[T], records []T) error {
	unlock := s.lock(c.Name)
	defer unlock()
	return save(ctx, s, c, records)
}

// Mutate runs fn on the current records and persists what it returns, all
// under the collection lock. An error from fn aborts without writing.
// Unlike Load, a failed read is not masked: it returns ErrStoreUnavailable
// and nothing is written.
func Mutate[T any](ctx context.Context, s *RecordStore, c Collection[T], fn func(records []T) ([]T, error)) ([]T, error) {
	unlock := s.lock(c.Name)
	defer unlock()

	blob, found, err := s.get(ctx, c.Name)
	if err != nil {
		s.logger.Error("record store read failed", zap.String("collection", c.Name), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to read "+c.Name)
	}
	current, err := decodeOrDefault(blob, found, func() []T { return c.seed(s.seedTime()) })
	if err != nil {
		s.fallback(c.Name, FallbackCorrupted, err)
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if err := save(ctx, s, c, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Prepend inserts record at the head, keeping the newest-first convention.
func Prepend[T any](ctx context.Context, s *RecordStore, c Collection[T], record T) error {
	_, err := Mutate(ctx, s, c, func(records []T) ([]T, error) {
		return append([]T{record}, records...), nil
	})
	return err
}

// Ping reads the users key straight from the backend, without the seed
// fallback, so readiness checks see real store failures.
func (s *RecordStore) Ping(ctx context.Context) error {
	_, _, err := s.get(ctx, KeyUsers)
	return err
}

// decodeOrDefault is the store-boundary policy: a missing or empty blob is
// the seed, a malformed one is the seed plus the decode error for reporting.
func decodeOrDefault[T any](blob []byte, found bool, seed func() []T) ([]T, error) {
	if !found || len(blob) == 0 {
		return seed(), nil
	}
	var records []T
	if err := json.Unmarshal(blob, &records); err != nil {
		return seed(), err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func save[T any](ctx context.Context, s *RecordStore, c Collection[T], records []T) error {
	if records == nil {
		records = []T{}
	}
	blob, err := json.Marshal(records)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode "+c.Name)
	}
	if err := s.set(ctx, c.Name, blob); err != nil {
		s.logger.Error("record store write failed", zap.String("collection", c.Name), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to save "+c.Name)
	}
	return nil
}

func (s *RecordStore) get(ctx context.Context, name string) ([]byte, bool, error) {
	start := time.Now()
	blob, found, err := s.blobs.Get(ctx, s.prefix+name)
	if s.observer != nil {
		s.observer.ObserveStoreOperation("get", name, time.Since(start), err)
	}
	return blob, found, err
}

func (s *RecordStore) set(ctx context.Context, name string, blob []byte) error {
	start := time.Now()
	err := s.blobs.Set(ctx, s.prefix+name, blob)
	if s.observer != nil {
		s.observer.ObserveStoreOperation("set", name, time.Since(start), err)
	}
	return err
}

func (s *RecordStore) seedTime() time.Time {
	s.seedOnce.Do(func() {
		s.seededAt = s.now()
	})
	return s.seededAt
}

func (s *RecordStore) fallback(name, reason string, err error) {
	s.logger.Warn("record store fell back to seed data",
		zap.String("collection", name),
		zap.String("reason", reason),
		zap.Error(err),
	)
	if s.observer != nil {
		s.observer.RecordStoreFallback(name, reason)
	}
}

func (s *RecordStore) lock(name string) func() {
	s.mu.Lock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}
