package scanner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/HaiderBassem/dupfinder/internal/events"
	"github.com/HaiderBassem/dupfinder/internal/scanner"
	"github.com/HaiderBassem/dupfinder/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0o644))
	return path
}

func TestWalker_AcceptsDefaultExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.jpg")
	writeFile(t, dir, "b.png")
	writeFile(t, dir, "notes.txt")

	w := scanner.NewWalker(api.DefaultScanConfig(), events.NullBus())
	result := w.Walk(context.Background(), []string{dir})

	assert.Len(t, result.Photos, 2)
	assert.Empty(t, result.Errors)
}

func TestWalker_SkipsHiddenUnlessIncluded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".hidden.jpg")
	writeFile(t, dir, "visible.jpg")

	cfg := api.DefaultScanConfig()
	w := scanner.NewWalker(cfg, events.NullBus())
	result := w.Walk(context.Background(), []string{dir})
	assert.Len(t, result.Photos, 1)

	cfg.IncludeHidden = true
	w = scanner.NewWalker(cfg, events.NullBus())
	result = w.Walk(context.Background(), []string{dir})
	assert.Len(t, result.Photos, 2)
}

func TestWalker_RespectsMaxDepth(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeFile(t, root, "top.jpg")
	writeFile(t, filepath.Join(root, "a"), "mid.jpg")
	writeFile(t, nested, "deep.jpg")

	cfg := api.DefaultScanConfig()
	cfg.MaxDepth = 1
	w := scanner.NewWalker(cfg, events.NullBus())
	result := w.Walk(context.Background(), []string{root})

	assert.Len(t, result.Photos, 2) // top.jpg and mid.jpg, not deep.jpg
}

func TestWalker_NonexistentRootIsRecordedNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.jpg")

	w := scanner.NewWalker(api.DefaultScanConfig(), events.NullBus())
	result := w.Walk(context.Background(), []string{dir, filepath.Join(dir, "does-not-exist")})

	assert.Len(t, result.Photos, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, api.ScanDirectoryNotFound, result.Errors[0].Kind)
}

func TestWalker_CancellationStopsEarly(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFile(t, dir, filepath.Join("", string(rune('a'+i))+".jpg"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := scanner.NewWalker(api.DefaultScanConfig(), events.NullBus())
	result := w.Walk(ctx, []string{dir})

	assert.Empty(t, result.Photos)
}
