// Package cache implements the two-tier key-value store (C3): a hot
// in-process map in front of a Postgres-backed persistent tier. The cache
// is advisory, never load-bearing — every backend error is logged and
// reduced to a miss on reads or a false on writes.
package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"log"
	"time"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// Store is the cache interface used by providers and use cases.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool)
	Set(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) bool
	Delete(ctx context.Context, key string) bool
	BatchGet(ctx context.Context, keys []string) map[string]json.RawMessage
	BatchSet(ctx context.Context, items map[string]json.RawMessage, ttl time.Duration) map[string]bool
}

// PostgresStore is the persistent tier. It is safe for concurrent use; the
// underlying *sql.DB manages its own connection pool.
type PostgresStore struct {
	conn *sql.DB
}

// NewPostgresStore opens a connection pool against connStr and ensures the
// cache schema exists.
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{conn: db}
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, err
	}
	return store, nil
}

// NewPostgresStoreFromDB wraps an already-open connection, used by tests
// with sqlmock and by callers that share a pool with other repositories.
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{conn: db}
}

func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

func (s *PostgresStore) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	var raw []byte
	err := s.conn.QueryRowContext(ctx, queryGet, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		log.Printf("cache: get %q failed: %v", key, err)
		return nil, false
	}
	return json.RawMessage(raw), true
}

func (s *PostgresStore) Set(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) bool {
	expiresAt := time.Now().Add(ttl)
	if _, err := s.conn.ExecContext(ctx, querySet, key, []byte(value), expiresAt); err != nil {
		log.Printf("cache: set %q failed: %v", key, err)
		return false
	}
	return true
}

func (s *PostgresStore) Delete(ctx context.Context, key string) bool {
	if _, err := s.conn.ExecContext(ctx, queryDelete, key); err != nil {
		log.Printf("cache: delete %q failed: %v", key, err)
		return false
	}
	return true
}

// BatchGet fetches keys in rounds of at most batchGetChunkSize, returning
// only the hits. A failed round degrades to zero results for that chunk
// rather than failing the whole call.
func (s *PostgresStore) BatchGet(ctx context.Context, keys []string) map[string]json.RawMessage {
	results := make(map[string]json.RawMessage, len(keys))
	for start := 0; start < len(keys); start += batchGetChunkSize {
		end := start + batchGetChunkSize
		if end > len(keys) {
			end = len(keys)
		}
		chunk := keys[start:end]

		rows, err := s.conn.QueryContext(ctx,
			`SELECT key, value FROM regweather.cache_entries WHERE key = ANY($1) AND expires_at > NOW()`,
			pq.Array(chunk),
		)
		if err != nil {
			log.Printf("cache: batch_get chunk failed: %v", err)
			continue
		}
		for rows.Next() {
			var key string
			var raw []byte
			if err := rows.Scan(&key, &raw); err != nil {
				log.Printf("cache: batch_get scan failed: %v", err)
				continue
			}
			results[key] = json.RawMessage(raw)
		}
		rows.Close()
	}
	return results
}

// BatchSet writes items in rounds of at most batchSetChunkSize. Each item
// not successfully written is reported as false in the result map.
func (s *PostgresStore) BatchSet(ctx context.Context, items map[string]json.RawMessage, ttl time.Duration) map[string]bool {
	results := make(map[string]bool, len(items))
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}

	for start := 0; start < len(keys); start += batchSetChunkSize {
		end := start + batchSetChunkSize
		if end > len(keys) {
			end = len(keys)
		}
		chunk := keys[start:end]

		tx, err := s.conn.BeginTx(ctx, nil)
		if err != nil {
			log.Printf("cache: batch_set begin tx failed: %v", err)
			for _, k := range chunk {
				results[k] = false
			}
			continue
		}

		ok := true
		for _, k := range chunk {
			expiresAt := time.Now().Add(ttl)
			if _, err := tx.ExecContext(ctx, querySet, k, []byte(items[k]), expiresAt); err != nil {
				log.Printf("cache: batch_set item %q failed: %v", k, err)
				ok = false
				break
			}
		}

		if !ok {
			_ = tx.Rollback()
			for _, k := range chunk {
				results[k] = false
			}
			continue
		}

		if err := tx.Commit(); err != nil {
			log.Printf("cache: batch_set commit failed: %v", err)
			for _, k := range chunk {
				results[k] = false
			}
			continue
		}

		for _, k := range chunk {
			results[k] = true
		}
	}
	return results
}
