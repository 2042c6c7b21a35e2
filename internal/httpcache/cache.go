// Package httpcache is a keyed, TTL-bound store for upstream API response
// bodies, backed by sqlite so repeated CLI invocations share it. Entries
// expire lazily at read time; nothing is evicted proactively.
package httpcache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultTTL matches the update cadence of the upstream weather models.
const DefaultTTL = 12 * time.Hour

// Cache stores fetched response bodies keyed by request URL. A disabled
// cache never reads or writes the store; enablement is fixed at
// construction so tests build isolated instances instead of toggling
// shared state.
type Cache struct {
	db      *sql.DB
	ttl     time.Duration
	enabled bool
}

// Open creates or opens the cache database at path.
func Open(path string, ttl time.Duration) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("httpcache: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("httpcache: create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	c := &Cache{db: db, ttl: ttl, enabled: true}
	if err := c.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// Disabled returns a cache that always invokes the fetch function and never
// touches storage.
func Disabled() *Cache {
	return &Cache{}
}

// DefaultPath returns the per-user cache database location.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("httpcache: resolve user cache dir: %w", err)
	}
	return filepath.Join(dir, "powder", "http_cache.db"), nil
}

func (c *Cache) migrate() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS responses (
			key         TEXT PRIMARY KEY,
			body        BLOB NOT NULL,
			inserted_at INTEGER NOT NULL
		)`)
	return err
}

// GetOrFetch returns the stored body for key when a non-expired entry
// exists. Otherwise it invokes fetch, stores a successful result, and
// returns it. Fetch failures propagate unchanged and are never stored, so a
// stale-but-unexpired success always wins over a fresh failure.
func (c *Cache) GetOrFetch(key string, fetch func() ([]byte, error)) ([]byte, error) {
	if !c.enabled {
		return fetch()
	}

	if body, ok := c.lookup(key); ok {
		return body, nil
	}

	body, err := fetch()
	if err != nil {
		return nil, err
	}

	// Concurrent misses on the same key may both fetch; last write wins,
	// which is harmless since the content per key is idempotent.
	_, storeErr := c.db.Exec(
		`INSERT INTO responses (key, body, inserted_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, inserted_at = excluded.inserted_at`,
		key, body, time.Now().Unix(),
	)
	if storeErr != nil {
		// A broken store must not discard a good response.
		return body, nil
	}
	return body, nil
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	var (
		body       []byte
		insertedAt int64
	)
	err := c.db.QueryRow(`SELECT body, inserted_at FROM responses WHERE key = ?`, key).
		Scan(&body, &insertedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, false
		}
		return nil, false
	}
	if time.Since(time.Unix(insertedAt, 0)) > c.ttl {
		return nil, false
	}
	return body, true
}

// Clear drops every cached response.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	_, err := c.db.Exec(`DELETE FROM responses`)
	return err
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
