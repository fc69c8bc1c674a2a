package cache

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Cache is the local durable copy of per-household list state. It survives
// restarts and serves reads when the remote store is unreachable. Values are
// opaque serialized blobs keyed by slot; the sync layer owns the encoding.
type Cache struct {
	conn *sql.DB
}

// Open opens (or creates) the cache file and ensures its schema.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	c := &Cache{conn: conn}
	if err := c.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return c, nil
}

func (c *Cache) Close() error {
	return c.conn.Close()
}

func (c *Cache) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS slots (
  slot TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := c.conn.Exec(schema)
	return err
}

// Get returns the stored value for a slot. The second return reports whether
// the slot exists; a missing slot is not an error.
func (c *Cache) Get(slot string) (string, bool, error) {
	var value string
	err := c.conn.QueryRow(`SELECT value FROM slots WHERE slot = ?`, slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Put stores a value under a slot, replacing any previous value.
func (c *Cache) Put(slot, value string) error {
	_, err := c.conn.Exec(`
INSERT INTO slots (slot, value) VALUES (?, ?)
ON CONFLICT(slot) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, slot, value)
	return err
}

// Delete removes a slot. Deleting a missing slot is a no-op.
func (c *Cache) Delete(slot string) error {
	_, err := c.conn.Exec(`DELETE FROM slots WHERE slot = ?`, slot)
	return err
}
