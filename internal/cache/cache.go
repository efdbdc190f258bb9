// Package cache implements the persistent perceptual-hash cache (C6):
// a path-keyed store of CacheEntry rows with freshness invalidation and
// chunked batch writes. Grounded on the original implementation's
// SqliteCache (src/core/cache/sqlite.rs) for the schema and WAL
// behaviour, and on the teacher's internal/index Store interface shape
// for the Go API surface (get/set/batch/stats/close).
package cache

import (
	"time"

	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// Cache is the persistent map from file identity to perceptual hash.
// All methods are safe for concurrent use: a private lock serialises
// writers while readers proceed through the backing store's own
// concurrency mechanism (WAL for SQLite).
type Cache interface {
	// Get returns the entry for path only if it is still fresh for the
	// given size/mtime. A storage error is distinct from a cache miss.
	Get(path string, currentSize int64, currentModified time.Time) (*api.CacheEntry, error)

	// Set upserts a single entry.
	Set(entry api.CacheEntry) error

	// SetBatch upserts many entries in a single transaction.
	SetBatch(entries []api.CacheEntry) error

	Remove(path string) error
	Clear() error

	Stats() (Stats, error)

	// PruneOrphans deletes entries whose path no longer exists on disk,
	// best-effort: a stat failure for one path does not halt the pass.
	PruneOrphans() (int, error)

	// GetScanState / SetScanState back the scan_state table, for a
	// future incremental-scan mode (see SPEC_FULL.md "Supplemented
	// features"); the orchestrator in this repo does not yet use them.
	GetScanState(directory string) (ScanState, bool, error)
	SetScanState(state ScanState) error

	Close() error
}

// Stats summarises the cache's contents.
type Stats struct {
	TotalEntries   int64
	TotalSizeBytes int64
	Oldest         time.Time
	Newest         time.Time
}

// ScanState records when a directory was last fully scanned, for a
// future incremental scan to compare against.
type ScanState struct {
	Directory     string
	LastScanTime  time.Time
	FileCount     int64
}
