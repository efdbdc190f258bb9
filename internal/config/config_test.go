package config_test

import (
	"path/filepath"
	"testing"

	"github.com/HaiderBassem/dupfinder/internal/config"
	"github.com/HaiderBassem/dupfinder/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LoadMissingFileReturnsDefaults(t *testing.T) {
	m := config.NewManager(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultFileConfig(), cfg)
}

func TestManager_SaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	m := config.NewManager(path)

	cfg := config.DefaultFileConfig()
	cfg.Paths = []string{"/photos"}
	cfg.Threshold = 3

	require.NoError(t, m.Save(cfg))
	assert.True(t, m.Exists())

	loaded, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"/photos"}, loaded.Paths)
	assert.Equal(t, uint32(3), loaded.Threshold)
}

func TestFileConfig_ToPipelineConfigLayersOverDefaults(t *testing.T) {
	fc := config.FileConfig{Threshold: 7}
	pc := fc.ToPipelineConfig()

	assert.Equal(t, uint32(7), pc.Threshold)
	assert.Equal(t, api.DefaultPipelineConfig().Algorithm, pc.Algorithm)
}
