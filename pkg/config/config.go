// Package config handles loading and saving jenkdash configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/jenkdash/config.yaml (server URL and credentials)
//   - State:  ~/.local/state/jenkdash/ (recently viewed jobs database)
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNoConfig is returned by Load when no configuration file exists yet.
// The caller is expected to run the interactive setup.
var ErrNoConfig = errors.New("no configuration file found")

// UIConfig holds UI preference settings.
type UIConfig struct {
	SidebarWidth int `yaml:"sidebar_width,omitempty"` // Width of the tree pane in cells
}

// Config is the top-level configuration for jenkdash.
type Config struct {
	URL      string   `yaml:"url"`
	Username string   `yaml:"username"`
	Token    string   `yaml:"token"`
	UI       UIConfig `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults and no server
// connection settings.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			SidebarWidth: 40,
		},
	}
}

// Validate checks that the connection settings are usable.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("server url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url %q: scheme must be http or https", c.URL)
	}
	return nil
}

// ConfigDir returns the XDG config directory for jenkdash.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "jenkdash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "jenkdash")
}

// StateDir returns the XDG state directory for jenkdash.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "jenkdash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "jenkdash")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// HistoryPath returns the full path to the recently-viewed-jobs database.
func HistoryPath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "history.db")
}

// Load reads the config file from the XDG config directory.
// Returns ErrNoConfig when the file does not exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), fmt.Errorf("cannot determine config directory")
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrNoConfig
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.UI.SidebarWidth <= 0 {
		cfg.UI.SidebarWidth = DefaultConfig().UI.SidebarWidth
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

// SaveTo writes the config to a specific path. The file is written 0600
// because it carries the API token.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
