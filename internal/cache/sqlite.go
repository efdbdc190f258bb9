package cache

import (
	"database/sql"
	"os"
	"sync"
	"time"

	"github.com/HaiderBassem/dupfinder/pkg/api"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCache persists perceptual hashes in a single-file SQLite
// database with WAL journalling, so a reader (e.g. a concurrent `stats`
// invocation) never blocks on a writer mid-scan. Grounded on the
// original implementation's SqliteCache (src/core/cache/sqlite.rs) for
// the schema and the WAL/freshness behaviour, and on the teacher's
// internal/index/sqlite.go for the database/sql + mattn/go-sqlite3
// idiom (Open, Exec-based schema setup, transactional batch writes).
type SQLiteCache struct {
	db   *sql.DB
	path string
	mu   sync.Mutex // serialises writers; SQLite WAL lets readers proceed regardless
}

// NewSQLiteCache opens (and if necessary creates) the cache database at
// path, enabling WAL mode and creating the hashes/scan_state tables.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &api.CacheError{Kind: api.CacheOpenFailed, Path: path, Reason: err.Error(), Cause: err}
	}

	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, &api.CacheError{Kind: api.CacheOpenFailed, Path: path, Reason: "enabling WAL: " + err.Error(), Cause: err}
	}
	if _, err := db.Exec(`PRAGMA synchronous=NORMAL`); err != nil {
		db.Close()
		return nil, &api.CacheError{Kind: api.CacheOpenFailed, Path: path, Reason: "setting synchronous: " + err.Error(), Cause: err}
	}

	c := &SQLiteCache{db: db, path: path}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *SQLiteCache) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS hashes (
			path          TEXT PRIMARY KEY,
			hash          BLOB NOT NULL,
			algorithm     TEXT NOT NULL,
			file_size     INTEGER NOT NULL,
			file_modified INTEGER NOT NULL,
			cached_at     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_path ON hashes(path)`,
		`CREATE TABLE IF NOT EXISTS scan_state (
			directory      TEXT PRIMARY KEY,
			last_scan_time INTEGER NOT NULL,
			file_count     INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := c.db.Exec(stmt); err != nil {
			return &api.CacheError{Kind: api.CacheQueryFailed, Path: c.path, Reason: err.Error(), Cause: err}
		}
	}
	return nil
}

// Get returns the cached entry for path if one exists and is fresh for
// the supplied (size, modified) observation.
func (c *SQLiteCache) Get(path string, currentSize int64, currentModified time.Time) (*api.CacheEntry, error) {
	row := c.db.QueryRow(
		`SELECT hash, algorithm, file_size, file_modified, cached_at FROM hashes WHERE path = ?`, path,
	)

	var hash []byte
	var algoStr string
	var fileSize, fileModified, cachedAt int64

	err := row.Scan(&hash, &algoStr, &fileSize, &fileModified, &cachedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &api.CacheError{Kind: api.CacheQueryFailed, Path: path, Reason: err.Error(), Cause: err}
	}

	entry := api.CacheEntry{
		Path:         path,
		Hash:         hash,
		Algorithm:    api.AlgorithmFromString(algoStr),
		FileSize:     fileSize,
		FileModified: time.Unix(fileModified, 0),
		CachedAt:     time.Unix(cachedAt, 0),
	}
	if !entry.IsFreshFor(currentSize, currentModified) {
		return nil, nil
	}
	return &entry, nil
}

// Set upserts a single entry outside of a batch transaction.
func (c *SQLiteCache) Set(entry api.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.upsert(c.db, entry)
}

// SetBatch upserts all entries within a single transaction; the
// pipeline calls it once per api.CacheChunkSize chunk, so a crash
// mid-scan loses at most one chunk's worth of freshly computed hashes.
func (c *SQLiteCache) SetBatch(entries []api.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(entries) == 0 {
		return nil
	}
	return c.writeChunk(entries)
}

func (c *SQLiteCache) writeChunk(chunk []api.CacheEntry) error {
	tx, err := c.db.Begin()
	if err != nil {
		return &api.CacheError{Kind: api.CacheQueryFailed, Reason: err.Error(), Cause: err}
	}
	defer tx.Rollback()

	for _, entry := range chunk {
		if err := c.upsert(tx, entry); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return &api.CacheError{Kind: api.CacheQueryFailed, Reason: err.Error(), Cause: err}
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx, letting upsert run
// either standalone or inside a batch transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (c *SQLiteCache) upsert(x execer, entry api.CacheEntry) error {
	cachedAt := entry.CachedAt
	if cachedAt.IsZero() {
		cachedAt = time.Unix(entry.FileModified.Unix(), 0)
	}
	_, err := x.Exec(
		`INSERT INTO hashes (path, hash, algorithm, file_size, file_modified, cached_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   hash=excluded.hash, algorithm=excluded.algorithm,
		   file_size=excluded.file_size, file_modified=excluded.file_modified,
		   cached_at=excluded.cached_at`,
		entry.Path, entry.Hash, entry.Algorithm.String(), entry.FileSize,
		entry.FileModified.Unix(), cachedAt.Unix(),
	)
	if err != nil {
		return &api.CacheError{Kind: api.CacheQueryFailed, Path: entry.Path, Reason: err.Error(), Cause: err}
	}
	return nil
}

func (c *SQLiteCache) Remove(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.Exec(`DELETE FROM hashes WHERE path = ?`, path); err != nil {
		return &api.CacheError{Kind: api.CacheQueryFailed, Path: path, Reason: err.Error(), Cause: err}
	}
	return nil
}

func (c *SQLiteCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.Exec(`DELETE FROM hashes`); err != nil {
		return &api.CacheError{Kind: api.CacheQueryFailed, Reason: err.Error(), Cause: err}
	}
	if _, err := c.db.Exec(`DELETE FROM scan_state`); err != nil {
		return &api.CacheError{Kind: api.CacheQueryFailed, Reason: err.Error(), Cause: err}
	}
	return nil
}

func (c *SQLiteCache) Stats() (Stats, error) {
	var stats Stats
	var oldest, newest sql.NullInt64

	row := c.db.QueryRow(`SELECT COUNT(*), IFNULL(SUM(LENGTH(hash)), 0), MIN(cached_at), MAX(cached_at) FROM hashes`)
	if err := row.Scan(&stats.TotalEntries, &stats.TotalSizeBytes, &oldest, &newest); err != nil {
		return Stats{}, &api.CacheError{Kind: api.CacheQueryFailed, Reason: err.Error(), Cause: err}
	}
	if oldest.Valid {
		stats.Oldest = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		stats.Newest = time.Unix(newest.Int64, 0)
	}
	return stats, nil
}

// PruneOrphans deletes entries whose path no longer exists on disk. A
// stat error other than "not exist" is treated as present, so a
// transient permission hiccup never evicts a still-valid entry.
func (c *SQLiteCache) PruneOrphans() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query(`SELECT path FROM hashes`)
	if err != nil {
		return 0, &api.CacheError{Kind: api.CacheQueryFailed, Reason: err.Error(), Cause: err}
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return 0, &api.CacheError{Kind: api.CacheQueryFailed, Reason: err.Error(), Cause: err}
		}
		paths = append(paths, p)
	}
	rows.Close()

	pruned := 0
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			if _, err := c.db.Exec(`DELETE FROM hashes WHERE path = ?`, p); err != nil {
				return pruned, &api.CacheError{Kind: api.CacheQueryFailed, Path: p, Reason: err.Error(), Cause: err}
			}
			pruned++
		}
	}
	return pruned, nil
}

func (c *SQLiteCache) GetScanState(directory string) (ScanState, bool, error) {
	row := c.db.QueryRow(`SELECT directory, last_scan_time, file_count FROM scan_state WHERE directory = ?`, directory)
	var st ScanState
	var lastScan int64
	err := row.Scan(&st.Directory, &lastScan, &st.FileCount)
	if err == sql.ErrNoRows {
		return ScanState{}, false, nil
	}
	if err != nil {
		return ScanState{}, false, &api.CacheError{Kind: api.CacheQueryFailed, Path: directory, Reason: err.Error(), Cause: err}
	}
	st.LastScanTime = time.Unix(lastScan, 0)
	return st, true, nil
}

func (c *SQLiteCache) SetScanState(state ScanState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.db.Exec(
		`INSERT INTO scan_state (directory, last_scan_time, file_count) VALUES (?, ?, ?)
		 ON CONFLICT(directory) DO UPDATE SET last_scan_time=excluded.last_scan_time, file_count=excluded.file_count`,
		state.Directory, state.LastScanTime.Unix(), state.FileCount,
	)
	if err != nil {
		return &api.CacheError{Kind: api.CacheQueryFailed, Path: state.Directory, Reason: err.Error(), Cause: err}
	}
	return nil
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
