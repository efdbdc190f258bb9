package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Format is the recognised image container format of a PhotoFile.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
	FormatWebP
	FormatHEIC
	FormatGIF
	FormatBMP
	FormatTIFF
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	case FormatHEIC:
		return "heic"
	case FormatGIF:
		return "gif"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// FormatFromExtension maps a filename extension (with or without leading
// dot, any case) to its Format tag.
func FormatFromExtension(ext string) Format {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "jpg", "jpeg":
		return FormatJPEG
	case "png":
		return FormatPNG
	case "webp":
		return FormatWebP
	case "heic", "heif":
		return FormatHEIC
	case "gif":
		return FormatGIF
	case "bmp":
		return FormatBMP
	case "tif", "tiff":
		return FormatTIFF
	default:
		return FormatUnknown
	}
}

// PhotoFile is a candidate image discovered by the walker. Width and
// Height are filled in by the hashing phase once the image is decoded;
// the other fields do not change during a pipeline run.
type PhotoFile struct {
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Created  time.Time `json:"created,omitempty"`
	Format   Format    `json:"format"`
	Width    int       `json:"width,omitempty"`
	Height   int       `json:"height,omitempty"`
}

// Algorithm is the perceptual hash algorithm family, a closed sum type:
// Average, Difference, Perceptual or a Fusion of all three.
type Algorithm int

const (
	AlgorithmAverage Algorithm = iota
	AlgorithmDifference
	AlgorithmPerceptual
	AlgorithmFusion
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmAverage:
		return "average"
	case AlgorithmDifference:
		return "difference"
	case AlgorithmPerceptual:
		return "perceptual"
	case AlgorithmFusion:
		return "fusion"
	default:
		return "difference"
	}
}

// AlgorithmFromString parses the cache's on-disk algorithm label.
// Unknown values decode to Difference so the store stays
// forward-compatible with algorithms added later.
func AlgorithmFromString(s string) Algorithm {
	switch s {
	case "average":
		return AlgorithmAverage
	case "difference":
		return AlgorithmDifference
	case "perceptual":
		return AlgorithmPerceptual
	case "fusion":
		return AlgorithmFusion
	default:
		return AlgorithmDifference
	}
}

// HashValue is a perceptual fingerprint: an opaque byte sequence plus
// the algorithm tag that produced it. Hamming distance is defined only
// between two values with matching algorithm and byte length.
type HashValue struct {
	Bytes     []byte
	Algorithm Algorithm
}

// NewHashValue wraps raw bytes with their algorithm tag, copying the
// slice so the caller's buffer can be reused.
func NewHashValue(bytes []byte, algorithm Algorithm) HashValue {
	cp := make([]byte, len(bytes))
	copy(cp, bytes)
	return HashValue{Bytes: cp, Algorithm: algorithm}
}

// BitCount is the total number of bits this hash carries.
func (h HashValue) BitCount() int { return len(h.Bytes) * 8 }

// Distance is the Hamming distance to another hash: the number of
// differing bits. Mismatched lengths compare only over the shared
// prefix, since that only happens across algorithm tags which callers
// should not be comparing in the first place.
func (h HashValue) Distance(other HashValue) uint32 {
	n := len(h.Bytes)
	if len(other.Bytes) < n {
		n = len(other.Bytes)
	}
	var dist uint32
	for i := 0; i < n; i++ {
		dist += uint32(popcount(h.Bytes[i] ^ other.Bytes[i]))
	}
	return dist
}

// Similarity expresses the Hamming distance to another hash as a
// percentage: 100 for identical hashes, 0 for maximally different ones.
func (h HashValue) Similarity(other HashValue) float64 {
	bits := h.BitCount()
	if bits == 0 {
		return 100.0
	}
	dist := h.Distance(other)
	return 100.0 * (1.0 - float64(dist)/float64(bits))
}

// Hex renders the hash as a lowercase hex string, the external exchange
// format for hash bytes.
func (h HashValue) Hex() string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(h.Bytes)*2)
	for i, b := range h.Bytes {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0f]
	}
	return string(out)
}

func popcount(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}

// CacheEntry is one row of the persistent perceptual-hash cache.
type CacheEntry struct {
	Path         string
	Hash         []byte
	Algorithm    Algorithm
	FileSize     int64
	FileModified time.Time
	CachedAt     time.Time
}

// IsFreshFor reports whether this entry is still valid for a file
// observed with the given size and modification time. Freshness is
// purely (size, whole-second mtime) equality — no content hashing.
func (c CacheEntry) IsFreshFor(currentSize int64, currentModified time.Time) bool {
	return c.FileSize == currentSize && c.FileModified.Unix() == currentModified.Unix()
}

// MatchType classifies a pairwise comparison by Hamming distance,
// independent of the comparator's tunable duplicate threshold. Ordinals
// are monotonically non-decreasing in distance, from most- to
// least-exact.
type MatchType int

const (
	MatchExact MatchType = iota
	MatchNearExact
	MatchSimilar
	MatchMaybeSimilar
)

// ClassifyMatchType maps a Hamming distance to its fixed MatchType
// bucket: 0 -> Exact, 1-4 -> NearExact, 5-10 -> Similar, 11+ -> MaybeSimilar.
func ClassifyMatchType(distance uint32) MatchType {
	switch {
	case distance == 0:
		return MatchExact
	case distance <= 4:
		return MatchNearExact
	case distance <= 10:
		return MatchSimilar
	default:
		return MatchMaybeSimilar
	}
}

// IsDuplicate reports whether this classification is treated as a
// duplicate by the default comparison strategy. MaybeSimilar alone
// never qualifies.
func (m MatchType) IsDuplicate() bool {
	return m == MatchExact || m == MatchNearExact || m == MatchSimilar
}

func (m MatchType) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchNearExact:
		return "near-exact"
	case MatchSimilar:
		return "similar"
	case MatchMaybeSimilar:
		return "maybe-similar"
	default:
		return "unknown"
	}
}

// MatchResult is a pairwise duplicate candidate emitted by the
// comparator. PhotoA/PhotoB ordering is stable per run but otherwise
// arbitrary.
type MatchResult struct {
	PhotoA            string
	PhotoB            string
	Distance          uint32
	SimilarityPercent float64
	MatchType         MatchType
}

// FusionConfidence grades how many of the three Fusion sub-algorithms
// agreed within the comparator's threshold.
type FusionConfidence int

const (
	FusionNone FusionConfidence = iota
	FusionLow
	FusionMedium
	FusionHigh
)

func (c FusionConfidence) String() string {
	switch c {
	case FusionHigh:
		return "high (3/3)"
	case FusionMedium:
		return "medium (2/3)"
	case FusionLow:
		return "low (1/3)"
	default:
		return "no match"
	}
}

// DuplicateGroup is a cluster of two or more paths judged to be the
// same image, transitively, under the comparator's threshold.
type DuplicateGroup struct {
	ID                 string
	Photos             []string
	Representative     string
	MatchType          MatchType
	AverageDistance    float64
	DuplicateSizeBytes int64

	// RepresentativeReason and Explanation are filled in by the reporter
	// (internal/report) once the pipeline refines the grouper's default
	// lexicographic-first representative; both are empty until then.
	RepresentativeReason string
	Explanation          string
}

// DuplicateCount excludes the representative from the count of members
// that could be removed to reclaim disk space.
func (g DuplicateGroup) DuplicateCount() int {
	if len(g.Photos) == 0 {
		return 0
	}
	return len(g.Photos) - 1
}

// ScanConfig governs the directory walker's traversal policy.
type ScanConfig struct {
	FollowSymlinks bool
	IncludeHidden  bool
	MaxDepth       int // 0 means unlimited
	Extensions     []string
}

// DefaultScanConfig mirrors the spec's stated defaults: no symlink
// following, hidden entries excluded, unlimited depth, default
// extension set.
func DefaultScanConfig() ScanConfig {
	exts := make([]string, len(DefaultExtensions))
	copy(exts, DefaultExtensions)
	return ScanConfig{
		FollowSymlinks: false,
		IncludeHidden:  false,
		MaxDepth:       0,
		Extensions:     exts,
	}
}

// PipelineConfig is the full input contract for a pipeline run.
type PipelineConfig struct {
	Paths      []string
	Algorithm  Algorithm
	Threshold  uint32
	ScanConfig ScanConfig
	CachePath  string // empty means an in-memory cache
}

// DefaultPipelineConfig mirrors the spec's external-interface defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Algorithm:  AlgorithmDifference,
		Threshold:  DefaultThreshold,
		ScanConfig: DefaultScanConfig(),
	}
}

// PipelineResult is the output contract of a pipeline run.
type PipelineResult struct {
	Groups      []DuplicateGroup
	TotalPhotos int
	CacheHits   int
	Errors      []string
	DurationMs  int64
}

// PipelineSummary is the small, event-friendly projection of a
// PipelineResult carried on Pipeline.Completed events.
type PipelineSummary struct {
	TotalPhotos           int
	DuplicateGroups       int
	DuplicateCount        int
	PotentialSavingsBytes int64
	DurationMs            int64
}

// ImageQuality is a supplementary, secondary representative-selection
// input (see SPEC_FULL.md "Supplemented features"). It never overrides
// the reporter's normative precedence rule. The pipeline does not
// compute it, and the explanation text does not include it.
type ImageQuality struct {
	Sharpness  float64 `json:"sharpness"`   // 0..1, 1 = sharpest
	Noise      float64 `json:"noise"`       // 0..1, 1 = noisiest
	Exposure   float64 `json:"exposure"`    // 0..1, 0.5 = ideal
	FinalScore float64 `json:"final_score"` // 0..100 overall score
}

// String renders a PipelineSummary as a short human-readable line, used
// by the CLI demo and logging.
func (s PipelineSummary) String() string {
	return fmt.Sprintf(
		"%d photos, %d groups, %d duplicates, %s reclaimable, %dms",
		s.TotalPhotos, s.DuplicateGroups, s.DuplicateCount,
		humanize.Bytes(uint64(s.PotentialSavingsBytes)), s.DurationMs,
	)
}
