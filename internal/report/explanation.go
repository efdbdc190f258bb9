package report

import (
	"fmt"

	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// TechnicalDetails carries the raw comparison data behind an
// explanation, for advanced users and machine consumers (the JSON
// report). Grounded on the original's TechnicalDetails
// (src/core/reporter/explanation.rs).
type TechnicalDetails struct {
	Algorithm     api.Algorithm
	HashA         string
	HashB         string
	DifferingBits uint32
	TotalBits     uint32
}

// DuplicateExplanation is why the comparator considered two photos
// duplicates, rendered at three levels of detail: a one-line Summary,
// a longer HumanReadable paragraph, and the raw Technical numbers.
// Grounded on the original's DuplicateExplanation
// (src/core/reporter/explanation.rs).
type DuplicateExplanation struct {
	Summary           string
	MatchType         api.MatchType
	HashDistance      uint32
	SimilarityPercent float64
	Technical         TechnicalDetails
	HumanReadable     string
}

// NewExplanation builds a DuplicateExplanation for a pairwise match.
// hashA/hashB are already-hex-encoded (see api.HashValue.Hex).
func NewExplanation(matchType api.MatchType, distance uint32, similarity float64, algorithm api.Algorithm, hashA, hashB string, totalBits uint32) DuplicateExplanation {
	return DuplicateExplanation{
		Summary:           generateSummary(matchType, similarity),
		MatchType:         matchType,
		HashDistance:      distance,
		SimilarityPercent: similarity,
		Technical: TechnicalDetails{
			Algorithm:     algorithm,
			HashA:         hashA,
			HashB:         hashB,
			DifferingBits: distance,
			TotalBits:     totalBits,
		},
		HumanReadable: generateHumanReadable(matchType, distance, totalBits),
	}
}

// generateSummary mirrors the original's generate_summary but is
// rewritten in this repo's own voice rather than translated prose.
func generateSummary(matchType api.MatchType, similarity float64) string {
	switch matchType {
	case api.MatchExact:
		return "These photos are identical"
	case api.MatchNearExact:
		return fmt.Sprintf("These photos are virtually identical (%.0f%% match)", similarity)
	case api.MatchSimilar:
		return fmt.Sprintf("These photos are very similar (%.0f%% match) - likely the same photo with different edits", similarity)
	case api.MatchMaybeSimilar:
		return fmt.Sprintf("These photos might be related (%.0f%% match) - review carefully before acting", similarity)
	default:
		return fmt.Sprintf("%.0f%% match", similarity)
	}
}

func generateHumanReadable(matchType api.MatchType, distance, totalBits uint32) string {
	switch matchType {
	case api.MatchExact:
		return "These photos produce the exact same visual fingerprint. " +
			"They show identical content - they may be exact file copies, " +
			"or differ only in metadata such as file names or timestamps."
	case api.MatchNearExact:
		return fmt.Sprintf(
			"These photos are virtually identical. Only %d out of %d comparison "+
				"points differ, which usually comes from minor compression "+
				"differences or a format conversion. They show the same image.",
			distance, totalBits,
		)
	case api.MatchSimilar:
		return fmt.Sprintf(
			"These photos are very similar, with %d differences out of %d "+
				"comparison points. This typically means the same photo edited "+
				"(cropped, filtered, brightness-adjusted), or shots taken moments apart.",
			distance, totalBits,
		)
	case api.MatchMaybeSimilar:
		return fmt.Sprintf(
			"These photos share significant visual elements but have %d "+
				"differences out of %d comparison points. They may be similar "+
				"scenes rather than true duplicates - review both before deciding.",
			distance, totalBits,
		)
	default:
		return fmt.Sprintf("%d of %d comparison points differ.", distance, totalBits)
	}
}
