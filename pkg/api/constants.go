package api

import "time"

// Hash size in pixels per side fed to the base algorithms: aHash and
// pHash work over an 8x8 grid (64 bits), dHash over 9x8.
const DefaultHashSize = 8

// HashWorkingSize is the fixed width and height (in pixels) the C3+C4
// decode-resize step downscales every photo's luma frame to before any
// hash algorithm runs. It is large enough for pHash's internal 64x64 DCT
// to see real detail while still being a single small, fixed-size frame
// shared by all three base algorithms.
const HashWorkingSize = 64

// Comparator threshold presets, in Hamming-distance bits out of 64.
const (
	ThresholdConservative uint32 = 5
	ThresholdBalanced     uint32 = 8
	ThresholdPermissive   uint32 = 10
)

// DefaultThreshold is used when the caller does not set one explicitly.
const DefaultThreshold = ThresholdBalanced

// CacheChunkSize bounds how many fresh hashes accumulate before being
// flushed to the persistent cache in a single transaction.
const CacheChunkSize = 100

// MmapThreshold is the file size at or above which the JPEG decoder
// prefers a memory-mapped read over a plain read.
const MmapThreshold = 1 << 20 // 1 MiB

// DefaultLSHBands and DefaultMinMatchingBands configure the banded LSH
// index for 64-bit hashes: 4 bands of 16 bits each by default.
const (
	DefaultLSHBands         = 4
	DefaultMinMatchingBands = 1
)

// NaiveComparisonCutover is the photo count below which the comparator
// skips LSH candidate generation and runs the full O(n^2) pass directly.
const NaiveComparisonCutover = 4000

// DefaultExtensions is the default accepted file-extension set for the
// directory walker, lower-cased without the leading dot.
var DefaultExtensions = []string{
	"jpg", "jpeg", "png", "webp", "heic", "heif", "gif", "bmp", "tiff", "tif",
}

// DefaultConfigDirName / DefaultConfigFileName mirror the teacher's
// per-user YAML config convention.
const (
	DefaultConfigDirName  = "dupfinder"
	DefaultConfigFileName = "config.yaml"
)

// EventProgressInterval is the wall-clock throttle for progress events,
// applied alongside the item-count throttle (see design note on event
// emission from hot loops).
const EventProgressInterval = 100 * time.Millisecond

// Duplicate-group classification, kept for explanation text and any
// caller that still groups by a coarse reason label.
const (
	ReasonExact      = "exact"
	ReasonNear       = "near"
	ReasonResized    = "resized"
	ReasonCompressed = "compressed"
	ReasonCropped    = "cropped"
)
