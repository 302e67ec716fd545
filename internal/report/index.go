package report

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/surfacectl/surfacectl/internal/schema"
)

// Index is an optional side table recording which cache keys have been
// materialized, so a fleet of extraction runs can query prior coverage
// without walking the output tree.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if absent) the SQLite index at path.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}
	const schemaSQL = `
CREATE TABLE IF NOT EXISTS cache_entries (
	cache_key    TEXT PRIMARY KEY,
	binary_hash  TEXT NOT NULL,
	invoked_path TEXT NOT NULL,
	created_at   TEXT NOT NULL
);`
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache index: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the underlying database handle.
func (i *Index) Close() error {
	return i.db.Close()
}

// Record upserts one cache key's coverage row, stamped with recordedAt so
// callers control the timestamp rather than the index reaching for the
// current time itself.
func (i *Index) Record(cacheKey string, identity schema.BinaryIdentity, invokedPath string, recordedAt time.Time) error {
	const upsertSQL = `
INSERT INTO cache_entries (cache_key, binary_hash, invoked_path, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(cache_key) DO UPDATE SET
	binary_hash = excluded.binary_hash,
	invoked_path = excluded.invoked_path,
	created_at = excluded.created_at;`
	_, err := i.db.Exec(upsertSQL, cacheKey, identity.Hash.Value, invokedPath, recordedAt.UTC().Format(time.RFC3339))
	return err
}

// Has reports whether cacheKey already has a recorded entry.
func (i *Index) Has(cacheKey string) (bool, error) {
	row := i.db.QueryRow(`SELECT 1 FROM cache_entries WHERE cache_key = ?`, cacheKey)
	var found int
	err := row.Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
