package pipeline

import (
	"github.com/HaiderBassem/dupfinder/internal/report"
	"github.com/HaiderBassem/dupfinder/internal/similarity"
	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// refineRepresentatives runs the reporter (C10) over the grouper's
// output: the grouper picks a lexicographic-first representative purely
// as a deterministic union-find artifact, but the pipeline's actual
// result should reflect the reporter's resolution/file-size/age/
// lexicographic precedence (§4.7), plus a plain-language explanation of
// why the group was matched.
func refineRepresentatives(groups []api.DuplicateGroup, photos []api.PhotoFile, hashed []similarity.Hashed, algorithm api.Algorithm) {
	if len(groups) == 0 {
		return
	}

	infoByPath := make(map[string]report.PhotoInfo, len(photos))
	for _, p := range photos {
		infoByPath[p.Path] = report.PhotoInfo{
			Path:     p.Path,
			Width:    p.Width,
			Height:   p.Height,
			Size:     p.Size,
			Format:   p.Format,
			Created:  p.Created,
			Modified: p.Modified,
		}
	}

	hashByPath := make(map[string]api.HashValue, len(hashed))
	for _, h := range hashed {
		hashByPath[h.Path] = h.Fusion.Select(algorithm)
	}

	for i := range groups {
		built, err := report.BuildGroupReport(groups[i], infoByPath, hashByPath, algorithm)
		if err != nil {
			continue
		}
		groups[i].Representative = built.RecommendedKeep
		groups[i].RepresentativeReason = built.KeepReason.String()
		groups[i].Explanation = built.Explanation.HumanReadable
	}
}
