package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/HaiderBassem/dupfinder/internal/report"
	"github.com/HaiderBassem/dupfinder/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photo(path string, size int64, w, h int) report.PhotoInfo {
	return report.PhotoInfo{Path: path, Size: size, Width: w, Height: h, Modified: time.Unix(1000, 0)}
}

func TestSelectRepresentative_PrefersHighestResolution(t *testing.T) {
	photos := []report.PhotoInfo{
		photo("/small.jpg", 1000, 800, 600),
		photo("/large.jpg", 900, 1920, 1080),
	}

	path, reason := report.SelectRepresentative(photos)
	assert.Equal(t, "/large.jpg", path)
	assert.Equal(t, report.KeepHighestResolution, reason)
}

func TestSelectRepresentative_FallsBackToFileSize(t *testing.T) {
	photos := []report.PhotoInfo{
		photo("/small.jpg", 1000, 800, 600),
		photo("/large.jpg", 5000, 800, 600),
	}

	path, reason := report.SelectRepresentative(photos)
	assert.Equal(t, "/large.jpg", path)
	assert.Equal(t, report.KeepLargestFileSize, reason)
}

func TestSelectRepresentative_FallsBackToOldestTimestamp(t *testing.T) {
	older := photo("/older.jpg", 1000, 800, 600)
	older.Modified = time.Unix(100, 0)
	newer := photo("/newer.jpg", 1000, 800, 600)
	newer.Modified = time.Unix(200, 0)

	path, reason := report.SelectRepresentative([]report.PhotoInfo{older, newer})
	assert.Equal(t, "/older.jpg", path)
	assert.Equal(t, report.KeepOldestTimestamp, reason)
}

func TestSelectRepresentative_FallsBackToAlphabetical(t *testing.T) {
	a := report.PhotoInfo{Path: "/a.jpg", Size: 1000}
	b := report.PhotoInfo{Path: "/b.jpg", Size: 1000}

	path, reason := report.SelectRepresentative([]report.PhotoInfo{b, a})
	assert.Equal(t, "/a.jpg", path)
	assert.Equal(t, report.KeepFirstAlphabetically, reason)
}

func TestSelectRepresentative_PanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { report.SelectRepresentative(nil) })
}

func TestKeepReason_String(t *testing.T) {
	assert.Contains(t, report.KeepHighestResolution.String(), "resolution")
	assert.Contains(t, report.KeepLargestFileSize.String(), "quality")
}

func TestNewExplanation_ExactMatchSummaryIsClear(t *testing.T) {
	exp := report.NewExplanation(api.MatchExact, 0, 100.0, api.AlgorithmDifference, "ff00", "ff00", 16)
	assert.Contains(t, exp.Summary, "identical")
	assert.NotContains(t, exp.HumanReadable, "Hamming")
}

func TestNewExplanation_NearExactIncludesPercentage(t *testing.T) {
	exp := report.NewExplanation(api.MatchNearExact, 2, 96.875, api.AlgorithmDifference, "ff00", "ff03", 64)
	assert.Contains(t, exp.Summary, "virtually identical")
	assert.Contains(t, exp.Summary, "97%")
}

func TestNewExplanation_TechnicalDetailsIncluded(t *testing.T) {
	exp := report.NewExplanation(api.MatchSimilar, 5, 92.0, api.AlgorithmPerceptual, "deadbeef", "deadbeee", 32)
	assert.Equal(t, api.AlgorithmPerceptual, exp.Technical.Algorithm)
	assert.Equal(t, uint32(5), exp.Technical.DifferingBits)
	assert.Equal(t, "deadbeef", exp.Technical.HashA)
}

func TestHashVisualizer_IdenticalHashesAreAllDots(t *testing.T) {
	viz := report.NewHashVisualizer(8)
	hash := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

	out := viz.VisualizeDifference(hash, hash)
	// The legend line names both symbols; check only the grid after it.
	grid := out[strings.Index(out, "\n\n")+2:]
	assert.NotContains(t, grid, "X")
	assert.Contains(t, grid, ".")
}

func TestHashVisualizer_DifferentHashesAreAllX(t *testing.T) {
	viz := report.NewHashVisualizer(8)
	hashA := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	hashB := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

	out := viz.VisualizeDifference(hashA, hashB)
	// The legend line names both symbols; check only the grid after it.
	grid := out[strings.Index(out, "\n\n")+2:]
	assert.NotContains(t, grid, ".")
	assert.Contains(t, grid, "X")
}

func TestHashVisualizer_SummarizeDifference(t *testing.T) {
	viz := report.NewHashVisualizer(8)
	hash := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

	summary := viz.SummarizeDifference(hash, hash)
	assert.Contains(t, summary, "0 of 64")
	assert.Contains(t, summary, "100")
}

func TestHashVisualizer_SimilarityBar(t *testing.T) {
	viz := report.NewHashVisualizer(8)

	full := viz.SimilarityBar(100.0)
	assert.Contains(t, full, "██████████")
	assert.Contains(t, full, "100%")

	half := viz.SimilarityBar(50.0)
	assert.Contains(t, half, "█████░░░░░")
	assert.Contains(t, half, "50%")
}

func TestBuildGroupReport_ComputesSavingsAndExplanation(t *testing.T) {
	group := api.DuplicateGroup{
		ID:              "g1",
		Photos:          []string{"/a.jpg", "/b.jpg"},
		Representative:  "/a.jpg",
		MatchType:       api.MatchExact,
		AverageDistance: 0,
	}
	photos := map[string]report.PhotoInfo{
		"/a.jpg": {Path: "/a.jpg", Size: 2000, Width: 1920, Height: 1080, Modified: time.Unix(100, 0)},
		"/b.jpg": {Path: "/b.jpg", Size: 1000, Width: 1920, Height: 1080, Modified: time.Unix(200, 0)},
	}
	hashes := map[string]api.HashValue{
		"/a.jpg": api.NewHashValue([]byte{0xFF}, api.AlgorithmDifference),
		"/b.jpg": api.NewHashValue([]byte{0xFF}, api.AlgorithmDifference),
	}

	gr, err := report.BuildGroupReport(group, photos, hashes, api.AlgorithmDifference)
	require.NoError(t, err)
	assert.Equal(t, "/a.jpg", gr.RecommendedKeep)
	assert.Equal(t, int64(1000), gr.PotentialSavings)
	assert.Equal(t, int64(3000), gr.TotalSizeBytes)
	assert.Equal(t, api.MatchExact, gr.Explanation.MatchType)
}

func TestBuildGroupReport_MissingMetadataErrors(t *testing.T) {
	group := api.DuplicateGroup{Photos: []string{"/a.jpg", "/b.jpg"}, Representative: "/a.jpg"}
	_, err := report.BuildGroupReport(group, map[string]report.PhotoInfo{}, map[string]api.HashValue{}, api.AlgorithmDifference)
	require.Error(t, err)
}

func TestSummarize_AggregatesAcrossGroups(t *testing.T) {
	reports := []report.GroupReport{
		{Photos: make([]report.PhotoInfo, 2), PotentialSavings: 100},
		{Photos: make([]report.PhotoInfo, 3), PotentialSavings: 250},
	}
	summary := report.Summarize(reports)
	assert.Equal(t, 2, summary.TotalGroups)
	assert.Equal(t, 3, summary.TotalDuplicates)
	assert.Equal(t, int64(350), summary.PotentialSavingsBytes)
}
