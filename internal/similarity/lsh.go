package similarity

import (
	"sort"

	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// LshConfig configures the banded LSH index. Grounded on the original
// implementation's LshConfig (src/core/comparator/lsh.rs); defaults
// match api.DefaultLSHBands/DefaultMinMatchingBands (4 bands of 16
// bits for a 64-bit hash, 1 shared band required).
type LshConfig struct {
	Bands            int
	MinMatchingBands int
}

// DefaultLshConfig mirrors the original's LshConfig::default().
func DefaultLshConfig() LshConfig {
	return LshConfig{Bands: api.DefaultLSHBands, MinMatchingBands: api.DefaultMinMatchingBands}
}

type lshEntry struct {
	path string
	hash api.HashValue
}

// LshIndex buckets photos by band value so only photos sharing at
// least MinMatchingBands bands need a full comparator pass, avoiding
// O(n^2) work on large photo sets. It indexes one hash per photo
// (typically the pipeline's primary algorithm); the comparator then
// verifies each candidate pair with the configured algorithm's rule
// (the 2-of-3 Fusion vote only when that algorithm is Fusion).
type LshIndex struct {
	config      LshConfig
	bitsPerBand int
	bandTables  []map[uint64][]int
	photos      []lshEntry
}

// NewLshIndex returns an empty index under config.
func NewLshIndex(config LshConfig) *LshIndex {
	if config.Bands <= 0 {
		config.Bands = api.DefaultLSHBands
	}
	if config.MinMatchingBands <= 0 {
		config.MinMatchingBands = api.DefaultMinMatchingBands
	}
	tables := make([]map[uint64][]int, config.Bands)
	for i := range tables {
		tables[i] = make(map[uint64][]int)
	}
	return &LshIndex{config: config, bandTables: tables}
}

// Add indexes one photo's hash under each of its bands.
func (idx *LshIndex) Add(path string, h api.HashValue) {
	photoIdx := len(idx.photos)
	bitCount := h.BitCount()

	if len(idx.photos) == 0 {
		idx.bitsPerBand = bitCount / idx.config.Bands
		if idx.bitsPerBand == 0 {
			idx.bitsPerBand = 1
		}
	}

	for bandIdx, bandValue := range idx.extractBands(h) {
		idx.bandTables[bandIdx][bandValue] = append(idx.bandTables[bandIdx][bandValue], photoIdx)
	}
	idx.photos = append(idx.photos, lshEntry{path: path, hash: h})
}

func (idx *LshIndex) extractBands(h api.HashValue) []uint64 {
	totalBits := len(h.Bytes) * 8
	bands := make([]uint64, idx.config.Bands)

	for bandIdx := 0; bandIdx < idx.config.Bands; bandIdx++ {
		startBit := bandIdx * idx.bitsPerBand
		if startBit >= totalBits {
			continue
		}
		var bandValue uint64
		limit := idx.bitsPerBand
		if limit > 64 {
			limit = 64
		}
		for bitOffset := 0; bitOffset < limit; bitOffset++ {
			bitIdx := startBit + bitOffset
			if bitIdx >= totalBits {
				break
			}
			byteIdx := bitIdx / 8
			bitInByte := bitIdx % 8
			bit := (h.Bytes[byteIdx] >> uint(bitInByte)) & 1
			bandValue |= uint64(bit) << uint(bitOffset)
		}
		bands[bandIdx] = bandValue
	}
	return bands
}

// FindCandidates returns every pair of photo indices sharing at least
// MinMatchingBands bands, deduplicated across bands. The result is
// sorted by (first index, second index) so the comparator's emitted
// match sequence does not depend on Go's randomised map iteration order.
func (idx *LshIndex) FindCandidates() [][2]int {
	pairCounts := make(map[[2]int]int)

	for _, table := range idx.bandTables {
		for _, bucket := range table {
			for i := 0; i < len(bucket); i++ {
				for j := i + 1; j < len(bucket); j++ {
					a, b := bucket[i], bucket[j]
					if a > b {
						a, b = b, a
					}
					pairCounts[[2]int{a, b}]++
				}
			}
		}
	}

	var candidates [][2]int
	for pair, count := range pairCounts {
		if count >= idx.config.MinMatchingBands {
			candidates = append(candidates, pair)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i][0] != candidates[j][0] {
			return candidates[i][0] < candidates[j][0]
		}
		return candidates[i][1] < candidates[j][1]
	})
	return candidates
}

// Len reports how many photos are indexed.
func (idx *LshIndex) Len() int { return len(idx.photos) }

// Path returns the indexed path at position i, for translating
// FindCandidates' index pairs back to filesystem paths.
func (idx *LshIndex) Path(i int) string { return idx.photos[i].path }

// Stats summarises the index, mirroring the original's LshIndexStats
// (the supplemented "LSH stats" feature from SPEC_FULL.md).
type Stats struct {
	TotalPhotos     int
	Bands           int
	BitsPerBand     int
	TotalBuckets    int
	MaxBucketSize   int
	AvgBucketSize   float64
	CandidatePairs  int
	NaiveComparisons int
	ReductionFactor float64
}

func (idx *LshIndex) Stats() Stats {
	totalBuckets := 0
	maxBucket := 0
	for _, table := range idx.bandTables {
		totalBuckets += len(table)
		for _, bucket := range table {
			if len(bucket) > maxBucket {
				maxBucket = len(bucket)
			}
		}
	}
	avgBucket := 0.0
	if totalBuckets > 0 {
		avgBucket = float64(len(idx.photos)*idx.config.Bands) / float64(totalBuckets)
	}

	n := len(idx.photos)
	naive := n * (n - 1) / 2
	candidates := len(idx.FindCandidates())
	reduction := float64(naive)
	if candidates > 0 {
		reduction = float64(naive) / float64(candidates)
	}

	return Stats{
		TotalPhotos:      n,
		Bands:            idx.config.Bands,
		BitsPerBand:      idx.bitsPerBand,
		TotalBuckets:     totalBuckets,
		MaxBucketSize:    maxBucket,
		AvgBucketSize:    avgBucket,
		CandidatePairs:   candidates,
		NaiveComparisons: naive,
		ReductionFactor:  reduction,
	}
}
