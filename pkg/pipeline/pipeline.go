// Package pipeline implements the orchestrator (C12): the public facade
// that runs the walker, hasher, comparator and grouper in strict order
// against a single configuration, emitting progress on an event bus and
// honouring context cancellation throughout. Grounded on the teacher's
// pkg/engine/{engine,processor}.go for the worker-pool/event-channel
// shape, rebuilt around this repo's Fusion-hash-and-cache pipeline
// instead of the teacher's SHA256-plus-fingerprint-store one.
package pipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/HaiderBassem/dupfinder/internal/cache"
	"github.com/HaiderBassem/dupfinder/internal/events"
	"github.com/HaiderBassem/dupfinder/internal/scanner"
	"github.com/HaiderBassem/dupfinder/internal/similarity"
	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// Pipeline runs a single configured scan-hash-compare-group pass.
type Pipeline struct {
	config  api.PipelineConfig
	cache   cache.Cache
	bus     *events.Bus
	workers int
}

// New builds a Pipeline for config, opening its cache backend
// (SQLite-backed when config.CachePath is set, in-memory otherwise) and
// emitting progress on bus. Pass events.NullBus() for silent operation.
func New(config api.PipelineConfig, bus *events.Bus) (*Pipeline, error) {
	if bus == nil {
		bus = events.NullBus()
	}

	var store cache.Cache
	if config.CachePath == "" {
		store = cache.NewMemoryCache()
	} else {
		sqliteCache, err := cache.NewSQLiteCache(config.CachePath)
		if err != nil {
			return nil, err
		}
		store = sqliteCache
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}

	return &Pipeline{config: config, cache: store, bus: bus, workers: workers}, nil
}

// Close releases the pipeline's cache backend.
func (p *Pipeline) Close() error {
	return p.cache.Close()
}

// Run walks config.Paths, hashes every accepted photo, compares the
// hashes and groups the duplicates, strictly in that order. Cancelling
// ctx short-circuits the current phase and returns the partial result
// built so far alongside a Pipeline.Cancelled event; Run itself never
// returns an error for cancellation, since a partial result is always
// meaningful to the caller.
func (p *Pipeline) Run(ctx context.Context) (api.PipelineResult, error) {
	start := time.Now()
	var result api.PipelineResult

	p.bus.Send(events.Event{Kind: events.PipelineStarted})
	p.bus.Send(events.Event{Kind: events.PipelinePhaseChanged, Phase: events.PhaseScanning})

	walker := scanner.NewWalker(p.config.ScanConfig, p.bus)
	scanResult := walker.Walk(ctx, p.config.Paths)
	for _, scanErr := range scanResult.Errors {
		result.Errors = append(result.Errors, scanErr.Error())
	}
	result.TotalPhotos = len(scanResult.Photos)

	if cancelled(ctx) {
		return p.finishCancelled(result, start), nil
	}

	if len(scanResult.Photos) == 0 {
		result.DurationMs = time.Since(start).Milliseconds()
		p.bus.Send(events.Event{Kind: events.PipelineCompleted, Summary: summarize(result)})
		return result, nil
	}

	p.bus.Send(events.Event{Kind: events.PipelinePhaseChanged, Phase: events.PhaseHashing})
	hashed, cacheHits, hashCancelled := p.hashAll(ctx, scanResult.Photos, &result)
	result.CacheHits = cacheHits
	if hashCancelled {
		return p.finishCancelled(result, start), nil
	}

	p.bus.Send(events.Event{Kind: events.PipelinePhaseChanged, Phase: events.PhaseComparing})
	matches, err := p.compareAll(ctx, hashed)
	if err != nil {
		return p.finishCancelled(result, start), nil
	}

	p.bus.Send(events.Event{Kind: events.PipelinePhaseChanged, Phase: events.PhaseReporting})
	groups := similarity.NewGrouper().Group(matches)
	refineRepresentatives(groups, scanResult.Photos, hashed, p.config.Algorithm)
	applyDuplicateSizes(groups, scanResult.Photos)
	result.Groups = groups

	result.DurationMs = time.Since(start).Milliseconds()
	summary := summarize(result)
	p.bus.Send(events.Event{Kind: events.PipelineCompleted, Summary: summary})
	return result, nil
}

func (p *Pipeline) finishCancelled(result api.PipelineResult, start time.Time) api.PipelineResult {
	result.DurationMs = time.Since(start).Milliseconds()
	p.bus.Send(events.Event{Kind: events.PipelineCancelled})
	return result
}

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// applyDuplicateSizes fills each group's DuplicateSizeBytes: the size of
// every member except the representative, the disk space reclaimed by
// removing the rest of the group.
func applyDuplicateSizes(groups []api.DuplicateGroup, photos []api.PhotoFile) {
	sizes := make(map[string]int64, len(photos))
	for _, photo := range photos {
		sizes[photo.Path] = photo.Size
	}
	for i := range groups {
		var dupBytes int64
		for _, path := range groups[i].Photos {
			if path == groups[i].Representative {
				continue
			}
			dupBytes += sizes[path]
		}
		groups[i].DuplicateSizeBytes = dupBytes
	}
}

func summarize(result api.PipelineResult) api.PipelineSummary {
	var duplicateCount int
	var savings int64
	for _, g := range result.Groups {
		duplicateCount += g.DuplicateCount()
		savings += g.DuplicateSizeBytes
	}
	return api.PipelineSummary{
		TotalPhotos:           result.TotalPhotos,
		DuplicateGroups:       len(result.Groups),
		DuplicateCount:        duplicateCount,
		PotentialSavingsBytes: savings,
		DurationMs:            result.DurationMs,
	}
}
