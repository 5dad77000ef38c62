package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the registry file name searched for when no
// explicit path is given.
const DefaultFileName = "registry.yaml"

// File is the on-disk YAML format for category overrides and additions.
// Keys of the Categories map become category keys after normalization.
type File struct {
	Categories map[string]Category `yaml:"categories"`
}

// LoadFile reads a registry file. A missing file returns
// ErrFileNotFound so callers can decide whether that is fatal (explicit
// --registry flag) or fine (default search path).
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided registry path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse registry file %s: %w", path, err)
	}

	if f.Categories == nil {
		f.Categories = make(map[string]Category)
	}
	return &f, nil
}

// FindFile searches for a registry file in the following order:
// 1. the explicit path, if given
// 2. registry.yaml in the current directory
// 3. registry.yaml in configDir (the application's config directory)
//
// Returns the path if found, or "" when there is nothing to load.
func FindFile(explicit, configDir string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if configDir != "" {
		p := filepath.Join(configDir, DefaultFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
