package pipeline_test

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/HaiderBassem/dupfinder/pkg/api"
	"github.com/HaiderBassem/dupfinder/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, fill color.Gray) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetGray(x, y, fill)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// writeGradientPNG writes a 32x32 image whose top half brightens left to
// right and whose bottom half darkens left to right, so its hashes differ
// from any flat fill (every flat fill hashes alike, whatever its level).
func writeGradientPNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := uint8(x * 8)
			if y >= 16 {
				v = uint8(248 - x*8)
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestPipeline_EmptyInputShortCircuits(t *testing.T) {
	dir := t.TempDir()
	cfg := api.DefaultPipelineConfig()
	cfg.Paths = []string{dir}

	pl, err := pipeline.New(cfg, nil)
	require.NoError(t, err)
	defer pl.Close()

	result, err := pl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalPhotos)
	assert.Empty(t, result.Groups)
}

func TestPipeline_FindsIdenticalPhotosAsDuplicates(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", color.Gray{Y: 10})
	writePNG(t, dir, "b.png", color.Gray{Y: 10})
	writeGradientPNG(t, dir, "c.png")

	cfg := api.DefaultPipelineConfig()
	cfg.Paths = []string{dir}

	pl, err := pipeline.New(cfg, nil)
	require.NoError(t, err)
	defer pl.Close()

	result, err := pl.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalPhotos)
	require.Len(t, result.Groups, 1)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")}, result.Groups[0].Photos)
	assert.Equal(t, api.MatchExact, result.Groups[0].MatchType)
}

func TestPipeline_CancelledContextReturnsPartialResult(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", color.Gray{Y: 10})

	cfg := api.DefaultPipelineConfig()
	cfg.Paths = []string{dir}

	pl, err := pipeline.New(cfg, nil)
	require.NoError(t, err)
	defer pl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := pl.Run(ctx)
	require.NoError(t, err)
	// The walker checks ctx before reading each directory, so a context
	// cancelled up front yields a partial result with no photos in it.
	assert.Equal(t, 0, result.TotalPhotos)
}

func TestPipeline_SecondRunHitsCache(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", color.Gray{Y: 10})
	writePNG(t, dir, "b.png", color.Gray{Y: 10})

	cachePath := filepath.Join(t.TempDir(), "cache.db")
	cfg := api.DefaultPipelineConfig()
	cfg.Paths = []string{dir}
	cfg.CachePath = cachePath

	pl, err := pipeline.New(cfg, nil)
	require.NoError(t, err)
	_, err = pl.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, pl.Close())

	pl2, err := pipeline.New(cfg, nil)
	require.NoError(t, err)
	defer pl2.Close()

	result, err := pl2.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.CacheHits)
}

func TestHighPerformanceAndAccuracyConfigsDifferFromDefault(t *testing.T) {
	def := pipeline.DefaultConfig()
	fast := pipeline.HighPerformanceConfig()
	accurate := pipeline.AccuracyConfig()

	assert.NotEqual(t, def.Threshold, fast.Threshold)
	assert.NotEqual(t, def.Algorithm, accurate.Algorithm)
}
