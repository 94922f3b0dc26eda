package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/quickblog-api/internal/database"
)

// PostgresStore keeps blobs in the post_blobs table, partitioned by store name
type PostgresStore struct {
	db    *database.DB
	store string
}

var _ BlobStore = (*PostgresStore)(nil)

// NewPostgresStore creates a store scoped to the given namespace
func NewPostgresStore(db *database.DB, store string) *PostgresStore {
	return &PostgresStore{db: db, store: store}
}

func (s *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM post_blobs WHERE store = $1", s.store)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM post_blobs WHERE store = $1 AND key = $2", s.store, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO post_blobs (store, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (store, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, s.store, key, value); err != nil {
		return fmt.Errorf("set blob %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM post_blobs WHERE store = $1 AND key = $2", s.store, key)
	if err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
