package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var errRedisUnconfigured = errors.New("redis client not configured")

// RedisBlobStore keeps each collection under a plain Redis string key without TTL.
type RedisBlobStore struct {
	client *redis.Client
}

// NewRedisBlobStore constructs the store.
func NewRedisBlobStore(client *redis.Client) *RedisBlobStore {
	return &RedisBlobStore{client: client}
}

// Get implements BlobStore.
func (r *RedisBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r.client == nil {
		return nil, false, errRedisUnconfigured
	}
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, true, nil
}

// Set implements BlobStore.
func (r *RedisBlobStore) Set(ctx context.Context, key string, blob []byte) error {
	if r.client == nil {
		return errRedisUnconfigured
	}
	if err := r.client.Set(ctx, key, blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *RedisBlobStore) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
