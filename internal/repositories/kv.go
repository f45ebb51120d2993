package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// KVEntry is a stored slot with its bookkeeping columns.
type KVEntry struct {
	Key       string
	Value     []byte
	Revision  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KVRepository stores opaque values under string keys in the kv_store table.
//
// It satisfies the library storage slot contract: Get returns [shared.ErrNotFound] for absent keys
// and Set overwrites, bumping the revision.
type KVRepository struct {
	db *sql.DB
}

// NewKVRepository creates a new KVRepository with the given database connection
func NewKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value stored under key.
func (r *KVRepository) Get(key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return nil, notFound(err, key)
	}
	return value, nil
}

// Set upserts value under key.
func (r *KVRepository) Set(key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, revision, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			revision = kv_store.revision + 1,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC()
	if value == nil {
		value = []byte{}
	}
	if _, err := r.db.Exec(query, key, value, now, now); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Entry returns the slot under key with its revision and timestamps.
func (r *KVRepository) Entry(key string) (*KVEntry, error) {
	query := `SELECT key, value, revision, created_at, updated_at FROM kv_store WHERE key = ?`
	entry, err := scanEntry(r.db.QueryRow(query, key))
	if err != nil {
		return nil, notFound(err, key)
	}
	return entry, nil
}

// Keys lists stored keys in lexical order.
func (r *KVRepository) Keys() ([]string, error) {
	rows, err := r.db.Query(`SELECT key FROM kv_store ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Delete removes key. Deleting an absent key returns [shared.ErrNotFound].
func (r *KVRepository) Delete(key string) error {
	return withTx(context.Background(), r.db, func(tx *sql.Tx) error {
		result, err := tx.Exec(`DELETE FROM kv_store WHERE key = ?`, key)
		if err != nil {
			return fmt.Errorf("failed to delete key %s: %w", key, err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return notFound(sql.ErrNoRows, key)
		}
		return nil
	})
}

func scanEntry(s scanner) (*KVEntry, error) {
	var e KVEntry
	if err := s.Scan(&e.Key, &e.Value, &e.Revision, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
