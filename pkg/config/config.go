// Package config handles loading and saving tg configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/tg/config.yaml
//   - Data:    ~/.local/share/tg/ (snapshots, exported archives)
//   - State:   ~/.local/state/tg/ (recent groves, view state cache)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Grove represents a registered data location in the config.
type Grove struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// ExportConfig holds default export settings.
type ExportConfig struct {
	Format   string `yaml:"format,omitempty"`    // outline, json, opml, sqlite, svg, png
	Indent   string `yaml:"indent,omitempty"`    // outline indent unit
	Metrics  bool   `yaml:"metrics,omitempty"`   // include metric decorations
	Health   bool   `yaml:"health,omitempty"`    // include health decorations
	MaxDepth int    `yaml:"max_depth,omitempty"` // 0 = unlimited
}

// UIConfig holds browser preference settings.
type UIConfig struct {
	Tree        string `yaml:"tree,omitempty"`         // content or sidebar on startup
	HideDropped bool   `yaml:"hide_dropped,omitempty"` // filter dropped entities from view
}

// Config is the top-level configuration for tg.
type Config struct {
	Groves []Grove      `yaml:"groves,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
	UI     UIConfig     `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Export: ExportConfig{
			Format: "outline",
			Indent: "  ",
		},
		UI: UIConfig{
			Tree: "content",
		},
	}
}

// ConfigDir returns the XDG config directory for tg.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tg")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tg")
}

// DataDir returns the XDG data directory for tg.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "tg")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "tg")
}

// StateDir returns the XDG state directory for tg.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "tg")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "tg")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Expand ~ in grove paths
	for i := range cfg.Groves {
		cfg.Groves[i].Path = expandHome(cfg.Groves[i].Path)
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FindGrove returns the grove with the given name, or nil.
func (c Config) FindGrove(name string) *Grove {
	for i := range c.Groves {
		if strings.EqualFold(c.Groves[i].Name, name) {
			return &c.Groves[i]
		}
	}
	return nil
}

// ResolvedPath returns the grove path with ~ expanded.
func (g Grove) ResolvedPath() string {
	return expandHome(g.Path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
