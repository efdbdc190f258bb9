package cache

import (
	"encoding/binary"
	"os"
	"sync"
	"time"

	"github.com/HaiderBassem/dupfinder/pkg/api"
	"github.com/boltdb/bolt"
)

var (
	bucketHashes    = []byte("hashes")
	bucketScanState = []byte("scan_state")
)

// BoltCache is the single-file, single-process alternative cache
// backend for callers that would rather not link the CGo sqlite3
// driver. Grounded on the teacher's internal/index/boltdb.go for the
// bolt.Open/Update/View bucket idiom; the bucket layout and value
// encoding are new, built around api.CacheEntry rather than the
// teacher's ImageFingerprint.
type BoltCache struct {
	db *bolt.DB
	mu sync.Mutex
}

// NewBoltCache opens dbPath, creating the hashes/scan_state buckets if
// this is a fresh database.
func NewBoltCache(dbPath string) (*BoltCache, error) {
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, &api.CacheError{Kind: api.CacheOpenFailed, Path: dbPath, Reason: err.Error(), Cause: err}
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketHashes); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketScanState)
		return err
	})
	if err != nil {
		db.Close()
		return nil, &api.CacheError{Kind: api.CacheOpenFailed, Path: dbPath, Reason: err.Error(), Cause: err}
	}

	return &BoltCache{db: db}, nil
}

// boltEntry is the fixed-layout value stored per path: algorithm tag
// byte, file size, modified unix seconds, cached-at unix seconds, then
// the raw hash bytes.
func encodeBoltEntry(e api.CacheEntry) []byte {
	buf := make([]byte, 1+8+8+8+len(e.Hash))
	buf[0] = byte(e.Algorithm)
	binary.BigEndian.PutUint64(buf[1:9], uint64(e.FileSize))
	binary.BigEndian.PutUint64(buf[9:17], uint64(e.FileModified.Unix()))
	binary.BigEndian.PutUint64(buf[17:25], uint64(e.CachedAt.Unix()))
	copy(buf[25:], e.Hash)
	return buf
}

func decodeBoltEntry(path string, data []byte) (api.CacheEntry, bool) {
	if len(data) < 25 {
		return api.CacheEntry{}, false
	}
	algo := api.Algorithm(data[0])
	size := int64(binary.BigEndian.Uint64(data[1:9]))
	modified := int64(binary.BigEndian.Uint64(data[9:17]))
	cachedAt := int64(binary.BigEndian.Uint64(data[17:25]))
	hash := make([]byte, len(data)-25)
	copy(hash, data[25:])
	return api.CacheEntry{
		Path:         path,
		Hash:         hash,
		Algorithm:    algo,
		FileSize:     size,
		FileModified: time.Unix(modified, 0),
		CachedAt:     time.Unix(cachedAt, 0),
	}, true
}

func (c *BoltCache) Get(path string, currentSize int64, currentModified time.Time) (*api.CacheEntry, error) {
	var entry api.CacheEntry
	var found bool

	err := c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketHashes).Get([]byte(path))
		if data == nil {
			return nil
		}
		entry, found = decodeBoltEntry(path, data)
		return nil
	})
	if err != nil {
		return nil, &api.CacheError{Kind: api.CacheQueryFailed, Path: path, Reason: err.Error(), Cause: err}
	}
	if !found || !entry.IsFreshFor(currentSize, currentModified) {
		return nil, nil
	}
	return &entry, nil
}

func (c *BoltCache) Set(entry api.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHashes).Put([]byte(entry.Path), encodeBoltEntry(entry))
	})
}

func (c *BoltCache) SetBatch(entries []api.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketHashes)
		for _, e := range entries {
			if err := bucket.Put([]byte(e.Path), encodeBoltEntry(e)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &api.CacheError{Kind: api.CacheQueryFailed, Reason: err.Error(), Cause: err}
	}
	return nil
}

func (c *BoltCache) Remove(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHashes).Delete([]byte(path))
	})
}

func (c *BoltCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketHashes); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		if err := tx.DeleteBucket(bucketScanState); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		if _, err := tx.CreateBucket(bucketHashes); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketScanState)
		return err
	})
}

func (c *BoltCache) Stats() (Stats, error) {
	var stats Stats
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHashes).ForEach(func(k, v []byte) error {
			entry, ok := decodeBoltEntry(string(k), v)
			if !ok {
				return nil
			}
			stats.TotalEntries++
			stats.TotalSizeBytes += int64(len(entry.Hash))
			if stats.Oldest.IsZero() || entry.CachedAt.Before(stats.Oldest) {
				stats.Oldest = entry.CachedAt
			}
			if entry.CachedAt.After(stats.Newest) {
				stats.Newest = entry.CachedAt
			}
			return nil
		})
	})
	if err != nil {
		return Stats{}, &api.CacheError{Kind: api.CacheQueryFailed, Reason: err.Error(), Cause: err}
	}
	return stats, nil
}

func (c *BoltCache) PruneOrphans() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var orphans [][]byte
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHashes).ForEach(func(k, _ []byte) error {
			if _, statErr := os.Stat(string(k)); os.IsNotExist(statErr) {
				orphans = append(orphans, append([]byte(nil), k...))
			}
			return nil
		})
	})
	if err != nil {
		return 0, &api.CacheError{Kind: api.CacheQueryFailed, Reason: err.Error(), Cause: err}
	}

	err = c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketHashes)
		for _, k := range orphans {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, &api.CacheError{Kind: api.CacheQueryFailed, Reason: err.Error(), Cause: err}
	}
	return len(orphans), nil
}

func (c *BoltCache) GetScanState(directory string) (ScanState, bool, error) {
	var st ScanState
	var found bool
	err := c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketScanState).Get([]byte(directory))
		if data == nil || len(data) < 16 {
			return nil
		}
		lastScan := int64(binary.BigEndian.Uint64(data[0:8]))
		fileCount := int64(binary.BigEndian.Uint64(data[8:16]))
		st = ScanState{Directory: directory, LastScanTime: time.Unix(lastScan, 0), FileCount: fileCount}
		found = true
		return nil
	})
	if err != nil {
		return ScanState{}, false, &api.CacheError{Kind: api.CacheQueryFailed, Path: directory, Reason: err.Error(), Cause: err}
	}
	return st, found, nil
}

func (c *BoltCache) SetScanState(state ScanState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], uint64(state.LastScanTime.Unix()))
	binary.BigEndian.PutUint64(buf[8:16], uint64(state.FileCount))
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketScanState).Put([]byte(state.Directory), buf)
	})
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}
