package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var collectionsBucket = []byte("collections")

// BoltBlobStore keeps every collection in one bucket of an embedded bbolt file.
type BoltBlobStore struct {
	db *bbolt.DB
}

// OpenBoltBlobStore opens (or creates) the database file at path.
func OpenBoltBlobStore(path string) (*BoltBlobStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prepare bolt directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(collectionsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bolt bucket: %w", err)
	}
	return &BoltBlobStore{db: db}, nil
}

// Get implements BlobStore.
func (b *BoltBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var blob []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(collectionsBucket).Get([]byte(key))
		if v != nil {
			// v is only valid inside the transaction.
			blob = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("bolt get %s: %w", key, err)
	}
	return blob, blob != nil, nil
}

// Set implements BlobStore.
func (b *BoltBlobStore) Set(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(collectionsBucket).Put([]byte(key), blob)
	})
	if err != nil {
		return fmt.Errorf("bolt set %s: %w", key, err)
	}
	return nil
}

// Close releases the database file lock.
func (b *BoltBlobStore) Close() error {
	return b.db.Close()
}
