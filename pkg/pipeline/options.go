package pipeline

import "github.com/HaiderBassem/dupfinder/pkg/api"

// DefaultConfig mirrors api.DefaultPipelineConfig, the balanced preset
// the CLI falls back to when the user picks no flags. Grounded on the
// teacher's pkg/engine/options.go DefaultConfig.
func DefaultConfig() api.PipelineConfig {
	return api.DefaultPipelineConfig()
}

// HighPerformanceConfig favours recall: the permissive threshold and the
// Average algorithm, whose single sub-hash the comparator (and, on large
// photo sets, the LSH index) uses in place of the 2-of-3 Fusion vote.
// All three base hashes are still computed for every photo. Grounded on the teacher's HighPerformanceConfig, which traded
// accuracy for fewer/cheaper hash computations per image.
func HighPerformanceConfig() api.PipelineConfig {
	cfg := api.DefaultPipelineConfig()
	cfg.Algorithm = api.AlgorithmAverage
	cfg.Threshold = api.ThresholdPermissive
	return cfg
}

// AccuracyConfig favours precision over recall: the conservative
// threshold and the Perceptual algorithm, the most discriminating of the
// three base hashes, whose single sub-hash the comparator (and, on large
// photo sets, the LSH index) uses in place of the 2-of-3 Fusion vote. Grounded on
// the teacher's AccuracyConfig, which traded speed for a larger hash
// size and detailed quality analysis.
func AccuracyConfig() api.PipelineConfig {
	cfg := api.DefaultPipelineConfig()
	cfg.Algorithm = api.AlgorithmPerceptual
	cfg.Threshold = api.ThresholdConservative
	return cfg
}
