package pipeline

import (
	"context"

	"github.com/HaiderBassem/dupfinder/internal/events"
	"github.com/HaiderBassem/dupfinder/internal/similarity"
	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// compareAll runs the comparator phase (C8), routing through an LSH
// candidate index (C7) once the photo count clears
// api.NaiveComparisonCutover, per the spec's comparator sizing rule.
func (p *Pipeline) compareAll(ctx context.Context, hashed []similarity.Hashed) ([]api.MatchResult, error) {
	total := naiveComparisonCount(len(hashed))
	p.bus.Send(events.Event{Kind: events.CompareStarted, ComparisonsTotal: total})

	comparator := similarity.NewComparator(p.config.Threshold, p.config.Algorithm)

	var matches []api.MatchResult
	var err error
	if len(hashed) < api.NaiveComparisonCutover {
		matches, err = comparator.CompareAll(ctx, hashed)
	} else {
		index := similarity.NewLshIndex(similarity.DefaultLshConfig())
		for _, h := range hashed {
			index.Add(h.Path, h.Fusion.Select(p.config.Algorithm))
		}
		matches, err = comparator.CompareCandidates(ctx, hashed, index.FindCandidates())
	}
	if err != nil {
		return nil, err
	}

	for _, m := range matches {
		p.bus.Send(events.Event{Kind: events.CompareDuplicateFound, GroupID: m.PhotoA + "|" + m.PhotoB})
	}
	p.bus.Send(events.Event{Kind: events.CompareCompleted, ComparisonsDone: total, TotalDuplicates: len(matches)})

	return matches, nil
}

func naiveComparisonCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}
