package repository

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/noah-isme/sma-wellbeing-api/pkg/storage"
)

// FileBlobStore keeps one JSON file per collection key.
type FileBlobStore struct {
	files *storage.LocalStorage
}

// NewFileBlobStore wraps a local storage directory.
func NewFileBlobStore(files *storage.LocalStorage) *FileBlobStore {
	return &FileBlobStore{files: files}
}

// Get implements BlobStore.
func (f *FileBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	blob, err := f.files.Read(fileName(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("file get %s: %w", key, err)
	}
	return blob, true, nil
}

// Set implements BlobStore. The file is replaced atomically.
func (f *FileBlobStore) Set(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := f.files.Save(fileName(key), blob); err != nil {
		return fmt.Errorf("file set %s: %w", key, err)
	}
	return nil
}

func fileName(key string) string {
	return key + ".json"
}
