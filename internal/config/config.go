// Package config loads renderer defaults from YAML, the way the rest
// of the retrieved corpus configures engines and world generators.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PackConfig describes one texture pack to register at startup.
type PackConfig struct {
	Path string `yaml:"path"`
}

// RendererConfig is the top-level renderer configuration.
type RendererConfig struct {
	// AssetsPath points at a vanilla-layout assets tree (see
	// internal/assets); aggregated-JSON directories are not read.
	AssetsPath string `yaml:"assets_path"`

	// CustomDataPath is an optional sibling overlay directory.
	CustomDataPath string `yaml:"customdata_path"`

	// Packs are additional resource packs layered on top of vanilla,
	// deepest priority first.
	Packs []PackConfig `yaml:"packs"`

	// DefaultPackIDs selects which registered packs participate by
	// default when RenderOptions.PackIDs is empty.
	DefaultPackIDs []string `yaml:"default_pack_ids"`

	// TextureCacheLimit is parsed but not read by the renderer: the
	// texture cache is unbounded whatever its value.
	TextureCacheLimit int `yaml:"texture_cache_limit"`

	// ModelCacheLimit is parsed but not read by the renderer: the
	// model cache is unbounded whatever its value.
	ModelCacheLimit int `yaml:"model_cache_limit"`

	// WatchForChanges is parsed but not read by the renderer: every
	// registered asset root is watched with fsnotify and cache
	// invalidation is always on, whatever its value.
	WatchForChanges bool `yaml:"watch_for_changes"`

	// DefaultSize is the pixel width/height used when RenderOptions
	// omits one.
	DefaultSize int `yaml:"default_size"`
}

// Default returns the configuration used when no file is supplied: a
// vanilla assets tree rooted at "assets", no packs, 64px output.
func Default() *RendererConfig {
	return &RendererConfig{
		AssetsPath:  "assets",
		DefaultSize: 64,
	}
}

// Load reads and parses a YAML renderer configuration file, filling
// in defaults for anything left zero-valued.
func Load(path string) (*RendererConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read renderer config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal renderer config: %w", err)
	}
	if cfg.AssetsPath == "" {
		cfg.AssetsPath = "assets"
	}
	if cfg.DefaultSize <= 0 {
		cfg.DefaultSize = 64
	}
	return cfg, nil
}
