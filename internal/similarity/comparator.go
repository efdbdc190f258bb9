// Package similarity implements the comparator (C8), LSH candidate
// index (C7) and transitive grouper (C9): turning a set of per-photo
// hashes into duplicate groups.
package similarity

import (
	"context"

	"github.com/HaiderBassem/dupfinder/internal/hash"
	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// Hashed pairs a photo path with the fusion hash computed for it.
type Hashed struct {
	Path   string
	Fusion hash.Fusion
}

// Comparator evaluates pairs of hashed photos against a threshold and
// classifies them via api.ClassifyMatchType. Below
// api.NaiveComparisonCutover photos it runs the full O(n^2) pass
// directly; above it, callers should route through an LSH index first
// (see lsh.go) and feed CompareCandidates only the candidate pairs.
//
// The configured algorithm determines the duplicate predicate itself,
// not just which hash an LSH index bands on: AlgorithmFusion runs the
// 2-of-3 sub-algorithm vote (hash.Fusion.Compare); the other three
// algorithms compare that single sub-hash's Hamming distance against
// threshold directly, matching the naive single-hash path the original
// implementation's generic hasher+ThresholdStrategy pairing used.
type Comparator struct {
	threshold uint32
	algorithm api.Algorithm
}

// NewComparator returns a Comparator configured with threshold, the
// Hamming-distance cutoff at or below which two hashes are considered a
// duplicate, and algorithm, which selects both the comparison rule and
// (for non-Fusion algorithms) which Fusion sub-hash it is applied to.
func NewComparator(threshold uint32, algorithm api.Algorithm) *Comparator {
	return &Comparator{threshold: threshold, algorithm: algorithm}
}

// CompareAll runs the naive all-pairs comparison over photos and
// returns every pair classified as a duplicate by the configured
// algorithm's rule (the 2-of-3 vote only for AlgorithmFusion). ctx is
// checked once every 256 pairs so a large photo set can be cancelled
// part-way rather than only at the end.
func (c *Comparator) CompareAll(ctx context.Context, photos []Hashed) ([]api.MatchResult, error) {
	return c.comparePairs(ctx, photos, allPairs(len(photos)))
}

// CompareCandidates runs the comparator only over the given index
// pairs, the output of an LshIndex.FindCandidates pass.
func (c *Comparator) CompareCandidates(ctx context.Context, photos []Hashed, pairs [][2]int) ([]api.MatchResult, error) {
	return c.comparePairs(ctx, photos, pairs)
}

func (c *Comparator) comparePairs(ctx context.Context, photos []Hashed, pairs [][2]int) ([]api.MatchResult, error) {
	var results []api.MatchResult

	for idx, pair := range pairs {
		if idx%256 == 0 {
			select {
			case <-ctx.Done():
				return nil, &api.CompareError{Kind: api.CompareCancelled}
			default:
			}
		}

		a, b := photos[pair[0]], photos[pair[1]]

		var distance uint32
		var similarityPercent float64
		if c.algorithm == api.AlgorithmFusion {
			fr := a.Fusion.Compare(b.Fusion, c.threshold)
			if !fr.IsDuplicate {
				continue
			}
			distance = fr.MinDistance
			similarityPercent = 100.0 * (1.0 - float64(distance)/64.0)
		} else {
			ha, hb := a.Fusion.Select(c.algorithm), b.Fusion.Select(c.algorithm)
			distance = ha.Distance(hb)
			if distance > c.threshold {
				continue
			}
			bits := ha.BitCount()
			if bits == 0 {
				bits = 64
			}
			similarityPercent = 100.0 * (1.0 - float64(distance)/float64(bits))
		}

		results = append(results, api.MatchResult{
			PhotoA:            a.Path,
			PhotoB:            b.Path,
			Distance:          distance,
			SimilarityPercent: similarityPercent,
			MatchType:         api.ClassifyMatchType(distance),
		})
	}

	return results, nil
}

// allPairs enumerates every (i, j) with i < j, the naive O(n^2) pass.
func allPairs(n int) [][2]int {
	if n < 2 {
		return nil
	}
	pairs := make([][2]int, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}
