package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const blobTableDDL = `CREATE TABLE IF NOT EXISTS wellbeing_collections (
	key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresBlobStore keeps each collection as one row keyed by collection name.
type PostgresBlobStore struct {
	db *sqlx.DB
}

// NewPostgresBlobStore constructs the store.
func NewPostgresBlobStore(db *sqlx.DB) *PostgresBlobStore {
	return &PostgresBlobStore{db: db}
}

// EnsureSchema creates the backing table when missing.
func (r *PostgresBlobStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, blobTableDDL); err != nil {
		return fmt.Errorf("create wellbeing_collections: %w", err)
	}
	return nil
}

// Get implements BlobStore.
func (r *PostgresBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload string
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM wellbeing_collections WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get collection %s: %w", key, err)
	}
	return []byte(payload), true, nil
}

// Set implements BlobStore as a single upsert, so the replace is atomic.
func (r *PostgresBlobStore) Set(ctx context.Context, key string, blob []byte) error {
	const query = `INSERT INTO wellbeing_collections (key, payload, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, string(blob), time.Now().UTC()); err != nil {
		return fmt.Errorf("set collection %s: %w", key, err)
	}
	return nil
}
