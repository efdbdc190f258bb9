// Package dupfinder re-exports the pieces of this module a library
// caller needs without reaching into internal/*: the pipeline
// constructors/presets, the data types a PipelineResult is built from,
// and a one-call convenience wrapper (QuickScan). Grounded on the
// teacher's pkg/imaged.go facade, re-pointed at pkg/pipeline in place
// of the teacher's pkg/engine.
package dupfinder

import (
	"context"

	"github.com/HaiderBassem/dupfinder/internal/events"
	"github.com/HaiderBassem/dupfinder/internal/quality"
	"github.com/HaiderBassem/dupfinder/internal/similarity"
	"github.com/HaiderBassem/dupfinder/pkg/api"
	"github.com/HaiderBassem/dupfinder/pkg/pipeline"
)

// Pipeline presets.
var (
	NewPipeline           = pipeline.New
	DefaultConfig         = pipeline.DefaultConfig
	HighPerformanceConfig = pipeline.HighPerformanceConfig
	AccuracyConfig        = pipeline.AccuracyConfig
)

// Common types.
type (
	PipelineConfig  = api.PipelineConfig
	PipelineResult  = api.PipelineResult
	PipelineSummary = api.PipelineSummary
	DuplicateGroup  = api.DuplicateGroup
	ImageQuality    = api.ImageQuality
	MatchType       = api.MatchType
)

// Supporting constructors a caller assembling its own pipeline-like
// flow might still want directly.
var (
	NewQualityAnalyzer = quality.NewAnalyzer
	NewComparator      = similarity.NewComparator
	NewEventBus        = events.NewBus
)

// QuickScan runs the default pipeline config against a single
// directory and returns its result, for callers that don't need
// progress events or a custom config.
func QuickScan(ctx context.Context, directoryPath string) (api.PipelineResult, error) {
	cfg := pipeline.DefaultConfig()
	cfg.Paths = []string{directoryPath}

	pl, err := pipeline.New(cfg, nil)
	if err != nil {
		return api.PipelineResult{}, err
	}
	defer pl.Close()

	return pl.Run(ctx)
}
