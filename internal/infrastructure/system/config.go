// Package system provides infrastructure for system-level configuration.
// This includes loading the system config file (~/.mbpatch/config.yaml)
// that controls where patched archives go and which extra profile
// catalogs are registered.
package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// DefaultSuffix is appended to the stem of patched archives.
const DefaultSuffix = "_multiboot"

// Config represents the global configuration file (~/.mbpatch/config.yaml).
type Config struct {
	Output OutputConfig `yaml:"output"`

	// Device is the default target device family ("" = unknown).
	Device string `yaml:"device"`

	// ProfileFiles lists extra YAML profile catalogs. Relative paths are
	// resolved against the directory of the config file.
	ProfileFiles []string `yaml:"profile_files"`

	// Jobs limits concurrent dispatches (0 = number of CPUs).
	Jobs int `yaml:"jobs"`
}

// OutputConfig configures where and how patched archives are written.
type OutputConfig struct {
	// Dir receives patched archives. Empty means next to the input.
	Dir string `yaml:"dir"`

	// Suffix is appended to the archive stem.
	Suffix string `yaml:"suffix"`

	// Overwrite defines what happens when the output already exists:
	// "ask" (default), "always" or "never".
	Overwrite string `yaml:"overwrite"`
}

// OverwritePolicy controls replacement of existing outputs.
type OverwritePolicy string

const (
	// OverwriteAsk prompts when interactive and refuses otherwise
	OverwriteAsk OverwritePolicy = "ask"

	// OverwriteAlways replaces existing outputs silently
	OverwriteAlways OverwritePolicy = "always"

	// OverwriteNever refuses to replace existing outputs
	OverwriteNever OverwritePolicy = "never"
)

// GetOverwritePolicy returns the configured policy, defaulting to Ask.
func (c *OutputConfig) GetOverwritePolicy() OverwritePolicy {
	switch c.Overwrite {
	case "always":
		return OverwriteAlways
	case "never":
		return OverwriteNever
	default:
		return OverwriteAsk
	}
}

// ConfigLoader loads system configuration from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new system config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// DefaultConfig returns a Config with safe defaults for all fields.
// This is used when no system config file exists.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Suffix:    DefaultSuffix,
			Overwrite: string(OverwriteAsk),
		},
		ProfileFiles: []string{},
		Jobs:         0, // 0 means number of CPUs
	}
}

// DefaultPath returns ~/.mbpatch/config.yaml, or "" if the home directory
// cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mbpatch", "config.yaml")
}

// Load loads the system configuration from the specified path.
// If the file does not exist, returns DefaultConfig() with safe defaults.
// Fields absent from the file keep their defaults.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	//nolint:gosec // G304: path is user-provided config file, validated to exist above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}

	if config.Output.Suffix == "" {
		config.Output.Suffix = DefaultSuffix
	}
	if config.Jobs < 0 {
		return nil, fmt.Errorf("invalid system config: jobs must not be negative, got %d", config.Jobs)
	}

	base := filepath.Dir(path)
	for i, p := range config.ProfileFiles {
		config.ProfileFiles[i] = resolveRelativePath(base, p)
	}
	if config.Output.Dir != "" {
		config.Output.Dir = resolveRelativePath(base, config.Output.Dir)
	}

	return config, nil
}

// resolveRelativePath resolves p relative to base unless it is absolute.
func resolveRelativePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// LoadConfig implements ports.SystemConfigProvider.
func (l *ConfigLoader) LoadConfig(_ context.Context, path string) (*Config, error) {
	return l.Load(path)
}
