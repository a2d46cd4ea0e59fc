package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PackMeta is the meta.json shape a texture pack directory carries.
type PackMeta struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// RegisterPack parses dir/meta.json and registers a namespace root for
// every assets/<ns> subdirectory it finds, returning the pack id.
func (r *Registry) RegisterPack(dir string) (string, error) {
	metaPath := filepath.Join(dir, "meta.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return "", fmt.Errorf("could not read pack meta: %w", err)
	}

	var meta PackMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", fmt.Errorf("could not unmarshal pack meta: %w", err)
	}
	if meta.ID == "" {
		return "", fmt.Errorf("pack meta.json missing id: %s", metaPath)
	}

	assetsDir := filepath.Join(dir, "assets")
	entries, err := os.ReadDir(assetsDir)
	if err != nil {
		return "", fmt.Errorf("could not read pack assets dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := r.Add(e.Name(), filepath.Join(assetsDir, e.Name()), meta.ID, false); err != nil {
			return "", err
		}
	}

	r.mu.Lock()
	r.packVersions[meta.ID] = meta.Version
	r.mu.Unlock()

	return meta.ID, nil
}

// RegisterCustomData registers a sibling customdata/ directory as an
// overlay with source id "customdata", mirroring the vanilla tree
// layout under each namespace it contains.
func (r *Registry) RegisterCustomData(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("could not read customdata dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := r.Add(e.Name(), filepath.Join(dir, e.Name()), "customdata", false); err != nil {
			return err
		}
	}
	return nil
}

// PackVersion returns the version recorded for a registered pack id.
func (r *Registry) PackVersion(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.packVersions[id]
}
