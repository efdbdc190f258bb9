// Package report implements the reporter (C10): turning a
// similarity.Grouper's DuplicateGroups into human-facing output -
// representative selection, plain-language explanations, hash
// visualizations, and JSON/text renderings of a full run. Grounded on
// the original's reporter module (src/core/reporter/mod.rs) for shape
// and on the teacher's internal/report/generator.go for the Go
// file-writing idiom.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// GroupReport is the complete explanation for one duplicate group: its
// members, the recommended photo to keep and why, and the pairwise
// explanation behind the grouping. Grounded on the original's
// GroupReport (src/core/reporter/mod.rs).
// PotentialSavings is the quantity named duplicate_size_bytes on
// api.DuplicateGroup and summed into api.PipelineSummary's
// PotentialSavingsBytes: the size of every member except the one kept.
// TotalSizeBytes additionally reports the group's full footprint
// (including the kept photo), a display-only enrichment beyond what the
// pipeline's DuplicateGroup tracks.
type GroupReport struct {
	GroupID          string
	Summary          string
	Photos           []PhotoInfo
	RecommendedKeep  string
	KeepReason       KeepReason
	Explanation      DuplicateExplanation
	TotalSizeBytes   int64
	PotentialSavings int64
}

// BuildGroupReport assembles a GroupReport from a duplicate group, the
// metadata known about its members, and the hash each member was
// indexed under. algorithm names which hash family the explanation's
// technical details describe.
//
// The explanation is grounded on the representative's pairing against
// the first other member of the group: the group as a whole may have
// been joined transitively (see similarity.Grouper), so no single pair
// necessarily represents every member, but the representative's own
// comparison is the one a user reviewing the group will care about
// first.
func BuildGroupReport(group api.DuplicateGroup, photos map[string]PhotoInfo, hashes map[string]api.HashValue, algorithm api.Algorithm) (GroupReport, error) {
	if len(group.Photos) == 0 {
		return GroupReport{}, &api.ReportError{Kind: api.ReportPhotoNotFound, Path: group.Representative}
	}

	infos := make([]PhotoInfo, 0, len(group.Photos))
	for _, path := range group.Photos {
		info, ok := photos[path]
		if !ok {
			return GroupReport{}, &api.ReportError{Kind: api.ReportMetadataError, Path: path}
		}
		infos = append(infos, info)
	}

	keepPath, keepReason := SelectRepresentative(infos)

	other := ""
	for _, p := range group.Photos {
		if p != keepPath {
			other = p
			break
		}
	}
	if other == "" {
		other = group.Photos[0]
	}

	hashKeep, ok := hashes[keepPath]
	if !ok {
		return GroupReport{}, &api.ReportError{Kind: api.ReportMetadataError, Path: keepPath}
	}
	hashOther, ok := hashes[other]
	if !ok {
		return GroupReport{}, &api.ReportError{Kind: api.ReportMetadataError, Path: other}
	}

	distance := hashKeep.Distance(hashOther)
	similarity := hashKeep.Similarity(hashOther)
	explanation := NewExplanation(
		api.ClassifyMatchType(distance), distance, similarity,
		algorithm, hashKeep.Hex(), hashOther.Hex(), uint32(hashKeep.BitCount()),
	)

	totalBytes, savings := computeSavings(infos, keepPath)

	return GroupReport{
		GroupID:          group.ID,
		Summary:          fmt.Sprintf("%d photos, %s", len(group.Photos), explanation.Summary),
		Photos:           infos,
		RecommendedKeep:  keepPath,
		KeepReason:       keepReason,
		Explanation:      explanation,
		TotalSizeBytes:   totalBytes,
		PotentialSavings: savings,
	}, nil
}

// computeSavings sums the size of every member except the one being
// kept: that is the disk space a user reclaims by deleting the rest of
// the group.
func computeSavings(photos []PhotoInfo, keepPath string) (totalSizeBytes, potentialSavings int64) {
	var total int64
	for _, p := range photos {
		total += p.Size
		if p.Path != keepPath {
			potentialSavings += p.Size
		}
	}
	return total, potentialSavings
}

// RunSummary aggregates GroupReports into the summary figures the JSON
// and text report generators print: total groups, total duplicate
// files (members minus one representative per group), and the combined
// reclaimable disk space across every group.
type RunSummary struct {
	TotalGroups           int
	TotalDuplicates       int
	PotentialSavingsBytes int64
}

// Summarize folds a slice of GroupReports into a RunSummary.
func Summarize(reports []GroupReport) RunSummary {
	var s RunSummary
	s.TotalGroups = len(reports)
	for _, r := range reports {
		s.TotalDuplicates += len(r.Photos) - 1
		s.PotentialSavingsBytes += r.PotentialSavings
	}
	return s
}

// TextSection renders one GroupReport as a readable paragraph, the
// building block the text report assembles per group.
func (g GroupReport) TextSection(index int, viz *HashVisualizer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Group %d: %s\n", index+1, g.GroupID)
	fmt.Fprintf(&b, "  %s\n", g.Summary)
	fmt.Fprintf(&b, "  Keep: %s (%s)\n", g.RecommendedKeep, g.KeepReason)
	fmt.Fprintf(&b, "  %s\n", g.Explanation.HumanReadable)
	if viz != nil && len(g.Explanation.Technical.HashA) > 0 {
		b.WriteString("  " + viz.SimilarityBar(g.Explanation.SimilarityPercent) + "\n")
	}
	fmt.Fprintf(&b, "  Reclaimable: %s of %s total\n",
		humanize.Bytes(uint64(g.PotentialSavings)), humanize.Bytes(uint64(g.TotalSizeBytes)))
	b.WriteString("  Photos:\n")
	for _, p := range g.Photos {
		marker := "  "
		if p.Path == g.RecommendedKeep {
			marker = "* "
		}
		fmt.Fprintf(&b, "    %s%s (%s)\n", marker, p.Path, humanize.Bytes(uint64(p.Size)))
	}
	return b.String()
}
