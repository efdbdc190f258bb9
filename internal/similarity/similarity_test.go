package similarity_test

import (
	"context"
	"testing"

	"github.com/HaiderBassem/dupfinder/internal/hash"
	"github.com/HaiderBassem/dupfinder/internal/similarity"
	"github.com/HaiderBassem/dupfinder/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fusionOf(a, d, p byte) hash.Fusion {
	return hash.Fusion{
		Average:    api.NewHashValue([]byte{a}, api.AlgorithmAverage),
		Difference: api.NewHashValue([]byte{d}, api.AlgorithmDifference),
		Perceptual: api.NewHashValue([]byte{p}, api.AlgorithmPerceptual),
	}
}

func TestComparator_CompareAll_FindsDuplicatePair(t *testing.T) {
	photos := []similarity.Hashed{
		{Path: "/a.jpg", Fusion: fusionOf(0xFF, 0xFF, 0xFF)},
		{Path: "/b.jpg", Fusion: fusionOf(0xFF, 0xFF, 0xFF)},
		{Path: "/c.jpg", Fusion: fusionOf(0x00, 0x00, 0x00)},
	}

	comparator := similarity.NewComparator(5, api.AlgorithmFusion)
	matches, err := comparator.CompareAll(context.Background(), photos)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "/a.jpg", matches[0].PhotoA)
	assert.Equal(t, "/b.jpg", matches[0].PhotoB)
	assert.Equal(t, api.MatchExact, matches[0].MatchType)
}

func TestComparator_CompareAll_SingleAlgorithmUsesOnlyThatSubHash(t *testing.T) {
	// a and b agree on Difference only; under AlgorithmDifference that's
	// enough to match even though it would only be a 1-of-3 Fusion vote.
	photos := []similarity.Hashed{
		{Path: "/a.jpg", Fusion: fusionOf(0xFF, 0x00, 0xFF)},
		{Path: "/b.jpg", Fusion: fusionOf(0x00, 0x00, 0x00)},
	}

	comparator := similarity.NewComparator(0, api.AlgorithmDifference)
	matches, err := comparator.CompareAll(context.Background(), photos)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, uint32(0), matches[0].Distance)
}

func TestComparator_CompareAll_Cancellation(t *testing.T) {
	photos := make([]similarity.Hashed, 0, 600)
	for i := 0; i < 600; i++ {
		photos = append(photos, similarity.Hashed{Path: string(rune(i)), Fusion: fusionOf(byte(i), byte(i), byte(i))})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	comparator := similarity.NewComparator(5, api.AlgorithmFusion)
	_, err := comparator.CompareAll(ctx, photos)
	assert.Error(t, err)
}

func TestLshIndex_IdenticalHashesAreCandidates(t *testing.T) {
	idx := similarity.NewLshIndex(similarity.DefaultLshConfig())
	idx.Add("/a.jpg", api.NewHashValue([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, api.AlgorithmDifference))
	idx.Add("/b.jpg", api.NewHashValue([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, api.AlgorithmDifference))

	candidates := idx.FindCandidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, [2]int{0, 1}, candidates[0])
}

func TestLshIndex_VeryDifferentHashesNotCandidates(t *testing.T) {
	idx := similarity.NewLshIndex(similarity.DefaultLshConfig())
	idx.Add("/a.jpg", api.NewHashValue([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, api.AlgorithmDifference))
	idx.Add("/b.jpg", api.NewHashValue([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, api.AlgorithmDifference))

	assert.Empty(t, idx.FindCandidates())
}

func TestLshIndex_StatsReportsReduction(t *testing.T) {
	idx := similarity.NewLshIndex(similarity.DefaultLshConfig())
	for i := 0; i < 10; i++ {
		idx.Add(string(rune('a'+i)), api.NewHashValue([]byte{byte(i), byte(i), byte(i), byte(i), byte(i), byte(i), byte(i), byte(i)}, api.AlgorithmDifference))
	}
	stats := idx.Stats()
	assert.Equal(t, 10, stats.TotalPhotos)
	assert.Equal(t, 45, stats.NaiveComparisons)
}

func TestGrouper_TransitiveGrouping(t *testing.T) {
	matches := []api.MatchResult{
		{PhotoA: "/a.jpg", PhotoB: "/b.jpg", Distance: 2, MatchType: api.MatchNearExact},
		{PhotoA: "/b.jpg", PhotoB: "/c.jpg", Distance: 3, MatchType: api.MatchNearExact},
	}

	groups := similarity.NewGrouper().Group(matches)
	require.Len(t, groups, 1)
	assert.ElementsMatch(t, []string{"/a.jpg", "/b.jpg", "/c.jpg"}, groups[0].Photos)
	assert.Equal(t, 2, groups[0].DuplicateCount())
}

func TestGrouper_DisjointPairsCreateSeparateGroups(t *testing.T) {
	matches := []api.MatchResult{
		{PhotoA: "/a.jpg", PhotoB: "/b.jpg", Distance: 0, MatchType: api.MatchExact},
		{PhotoA: "/c.jpg", PhotoB: "/d.jpg", Distance: 0, MatchType: api.MatchExact},
	}

	groups := similarity.NewGrouper().Group(matches)
	require.Len(t, groups, 2)
}

func TestGrouper_AverageDistanceIsPerRootNotGlobal(t *testing.T) {
	matches := []api.MatchResult{
		{PhotoA: "/a.jpg", PhotoB: "/b.jpg", Distance: 0, MatchType: api.MatchExact},
		{PhotoA: "/c.jpg", PhotoB: "/d.jpg", Distance: 10, MatchType: api.MatchSimilar},
	}

	groups := similarity.NewGrouper().Group(matches)
	require.Len(t, groups, 2)
	for _, g := range groups {
		if g.Representative == "/a.jpg" {
			assert.Equal(t, 0.0, g.AverageDistance)
		}
		if g.Representative == "/c.jpg" {
			assert.Equal(t, 10.0, g.AverageDistance)
		}
	}
}

func TestGrouper_EmptyMatchesReturnsEmpty(t *testing.T) {
	assert.Empty(t, similarity.NewGrouper().Group(nil))
}
