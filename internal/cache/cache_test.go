package cache_test

import (
	"testing"
	"time"

	"github.com/HaiderBassem/dupfinder/internal/cache"
	"github.com/HaiderBassem/dupfinder/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends lists the Cache implementations the contract tests below run
// against. Only MemoryCache is listed; SQLiteCache and BoltCache need
// real database files and are not exercised here.
func backends(t *testing.T) map[string]cache.Cache {
	t.Helper()
	return map[string]cache.Cache{
		"memory": cache.NewMemoryCache(),
	}
}

func TestCache_MissThenHit(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			now := time.Unix(1700000000, 0)
			entry, err := c.Get("/a.jpg", 100, now)
			require.NoError(t, err)
			assert.Nil(t, entry)

			require.NoError(t, c.Set(api.CacheEntry{
				Path: "/a.jpg", Hash: []byte{1, 2, 3, 4, 5, 6, 7, 8},
				Algorithm: api.AlgorithmDifference, FileSize: 100,
				FileModified: now, CachedAt: now,
			}))

			got, err := c.Get("/a.jpg", 100, now)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, got.Hash)
		})
	}
}

func TestCache_StaleOnSizeOrMtimeChange(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			now := time.Unix(1700000000, 0)
			require.NoError(t, c.Set(api.CacheEntry{
				Path: "/a.jpg", Hash: []byte{1}, Algorithm: api.AlgorithmAverage,
				FileSize: 100, FileModified: now, CachedAt: now,
			}))

			_, err := c.Get("/a.jpg", 101, now)
			require.NoError(t, err)
			got, _ := c.Get("/a.jpg", 101, now)
			assert.Nil(t, got)

			later := now.Add(time.Hour)
			got2, _ := c.Get("/a.jpg", 100, later)
			assert.Nil(t, got2)
		})
	}
}

func TestCache_SetBatchAndStats(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			now := time.Unix(1700000000, 0)
			entries := make([]api.CacheEntry, 0, 250)
			for i := 0; i < 250; i++ {
				entries = append(entries, api.CacheEntry{
					Path: string(rune('a' + i%26)), Hash: []byte{byte(i)},
					Algorithm: api.AlgorithmAverage, FileSize: int64(i), FileModified: now, CachedAt: now,
				})
			}
			require.NoError(t, c.SetBatch(entries))

			stats, err := c.Stats()
			require.NoError(t, err)
			assert.True(t, stats.TotalEntries > 0)
		})
	}
}

func TestCache_RemoveAndClear(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			now := time.Unix(1700000000, 0)
			require.NoError(t, c.Set(api.CacheEntry{Path: "/x.jpg", Hash: []byte{9}, FileSize: 1, FileModified: now, CachedAt: now}))
			require.NoError(t, c.Remove("/x.jpg"))
			got, _ := c.Get("/x.jpg", 1, now)
			assert.Nil(t, got)

			require.NoError(t, c.Set(api.CacheEntry{Path: "/y.jpg", Hash: []byte{9}, FileSize: 1, FileModified: now, CachedAt: now}))
			require.NoError(t, c.Clear())
			stats, err := c.Stats()
			require.NoError(t, err)
			assert.Equal(t, int64(0), stats.TotalEntries)
		})
	}
}

func TestCache_ScanState(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := c.GetScanState("/photos")
			require.NoError(t, err)
			assert.False(t, found)

			now := time.Unix(1700000000, 0)
			require.NoError(t, c.SetScanState(cache.ScanState{Directory: "/photos", LastScanTime: now, FileCount: 42}))

			st, found, err := c.GetScanState("/photos")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, int64(42), st.FileCount)
		})
	}
}
