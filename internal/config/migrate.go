package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LegacyConfigFile is the JSON config written by earlier releases.
const LegacyConfigFile = "codegen.config.json"

// LegacyConfigExists checks whether the legacy JSON config exists in the given directory.
func LegacyConfigExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, LegacyConfigFile))
	return err == nil
}

// MigrateFromLegacyJSON reads codegen.config.json and converts it into a Config.
// JSON is a subset of YAML, so the same field tags apply.
// It does NOT delete the old file; the caller should do that after saving the new one.
func MigrateFromLegacyJSON(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, LegacyConfigFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("legacy config not found")
		}
		return nil, fmt.Errorf("reading legacy config: %w", err)
	}

	c, err := parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("legacy %s: %w", LegacyConfigFile, err)
	}
	return c, nil
}

// RemoveLegacyConfig deletes codegen.config.json if present.
func RemoveLegacyConfig(dir string) error {
	err := os.Remove(filepath.Join(dir, LegacyConfigFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
