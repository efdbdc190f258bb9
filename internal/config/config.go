// Package config loads and saves the on-disk YAML configuration a CLI
// invocation falls back to when flags are omitted. Grounded on the
// teacher's internal/utils/config.go ConfigManager, generalised from an
// interface{}-typed blob to this repo's own FileConfig shape.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// FileConfig is the on-disk shape of a persisted run configuration, a
// YAML projection of api.PipelineConfig plus the logging level the
// pipeline itself has no opinion about.
type FileConfig struct {
	Paths      []string `yaml:"paths"`
	Algorithm  string   `yaml:"algorithm"`
	Threshold  uint32   `yaml:"threshold"`
	CachePath  string   `yaml:"cache_path"`
	Extensions []string `yaml:"extensions,omitempty"`
	MaxDepth   int      `yaml:"max_depth"`
	LogLevel   string   `yaml:"log_level"`
}

// DefaultFileConfig mirrors api.DefaultPipelineConfig plus an "info"
// log level.
func DefaultFileConfig() FileConfig {
	cfg := api.DefaultPipelineConfig()
	return FileConfig{
		Algorithm: cfg.Algorithm.String(),
		Threshold: cfg.Threshold,
		LogLevel:  "info",
	}
}

// ToPipelineConfig projects a FileConfig onto api.PipelineConfig,
// layering its values over api.DefaultPipelineConfig so a sparse file
// (e.g. just an overridden threshold) still yields a complete config.
func (f FileConfig) ToPipelineConfig() api.PipelineConfig {
	cfg := api.DefaultPipelineConfig()
	if len(f.Paths) > 0 {
		cfg.Paths = f.Paths
	}
	if f.Algorithm != "" {
		cfg.Algorithm = api.AlgorithmFromString(f.Algorithm)
	}
	if f.Threshold > 0 {
		cfg.Threshold = f.Threshold
	}
	cfg.CachePath = f.CachePath
	if len(f.Extensions) > 0 {
		cfg.ScanConfig.Extensions = f.Extensions
	}
	cfg.ScanConfig.MaxDepth = f.MaxDepth
	return cfg
}

// Manager loads and saves a FileConfig at a fixed path.
type Manager struct {
	path string
}

// NewManager builds a Manager bound to path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load reads and parses the config file. A missing file is not an
// error: callers get DefaultFileConfig instead, the same fallback
// behaviour the CLI demo's flag parsing already has to support.
func (m *Manager) Load() (FileConfig, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultFileConfig(), nil
		}
		return FileConfig{}, fmt.Errorf("config: read %s: %w", m.path, err)
	}

	cfg := DefaultFileConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("config: parse %s: %w", m.path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory if needed.
func (m *Manager) Save(cfg FileConfig) error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("config: create dir %s: %w", dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", m.path, err)
	}
	return nil
}

// Exists reports whether the config file is present.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// DefaultPath returns the per-user config file path,
// $HOME/.config/<api.DefaultConfigDirName>/<api.DefaultConfigFileName>,
// falling back to a relative file name if the home directory can't be
// resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return api.DefaultConfigFileName
	}
	return filepath.Join(home, ".config", api.DefaultConfigDirName, api.DefaultConfigFileName)
}
