package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PostgresStore persists entries in the kv_entries table.
type PostgresStore struct {
	DB *sql.DB
}

// NewPostgresStore constructs a PostgresStore over the shared *sql.DB.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// Set upserts the value under key. Each write replaces the whole value.
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := s.DB.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("kv set key=%s: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kv get key=%s: %w", key, err)
	}
	return value, nil
}

// List returns items whose keys match the prefix pattern, ordered by key.
func (s *PostgresStore) List(ctx context.Context, pattern string, withValues bool) ([]Item, error) {
	prefix, err := patternPrefix(pattern)
	if err != nil {
		return nil, err
	}

	query := `SELECT key FROM kv_entries WHERE key LIKE $1 ORDER BY key`
	if withValues {
		query = `SELECT key, value FROM kv_entries WHERE key LIKE $1 ORDER BY key`
	}

	rows, err := s.DB.QueryContext(ctx, query, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("kv list pattern=%s: %w", pattern, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if withValues {
			if err := rows.Scan(&item.Key, &item.Value); err != nil {
				return nil, fmt.Errorf("kv list scan: %w", err)
			}
		} else {
			if err := rows.Scan(&item.Key); err != nil {
				return nil, fmt.Errorf("kv list scan: %w", err)
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv list rows: %w", err)
	}
	return items, nil
}

// escapeLike quotes LIKE metacharacters so the prefix matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

var _ Store = (*PostgresStore)(nil)
