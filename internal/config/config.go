// Package config loads upkeep configuration and resolves its on-disk
// locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BrewConfig selects the Homebrew binary and the formula API endpoint.
type BrewConfig struct {
	Path      string `yaml:"path"`
	SearchAPI string `yaml:"search_api"`
}

// MaintenanceAction is one declarative maintenance entry. Command is a
// full command line; it is split quote-aware before execution.
type MaintenanceAction struct {
	Title   string `yaml:"title"`
	Command string `yaml:"command"`
	Elevate bool   `yaml:"elevate"`
}

// Config is the on-disk configuration. Zero values fall back to
// Default(); loading overlays the file on top of the defaults so an
// explicit false survives.
type Config struct {
	ScriptsDir  string              `yaml:"scripts_dir"`
	DryRun      bool                `yaml:"dry_run"`
	BundleDirs  []string            `yaml:"bundle_dirs"`
	Maintenance []MaintenanceAction `yaml:"maintenance"`
	Brew        BrewConfig          `yaml:"brew"`
	ManifestURL string              `yaml:"manifest_url"`
}

// Default returns the built-in configuration. Dry-run starts enabled;
// state-changing behavior is opt-in.
func Default() *Config {
	return &Config{
		DryRun: true,
		Brew: BrewConfig{
			Path:      "brew",
			SearchAPI: "https://formulae.brew.sh/api",
		},
	}
}

// systemPaths are consulted in order after the explicit sources. The
// /etc entry carries site policy and wins over vendor defaults.
var systemPaths = []string{
	"/etc/upkeep/config.yml",
	"/usr/share/upkeep/config.yml",
}

// Load resolves and parses the configuration. Resolution order:
// explicit path (from the --config flag), the UPKEEP_CONFIG variable,
// the system paths, the user config, then ./config.yml. An explicitly
// requested file that is missing or malformed is an error; a missing
// candidate in the search chain is skipped. With no file found the
// defaults are returned with an empty source.
func Load(explicit string) (*Config, string, error) {
	if explicit != "" {
		cfg, err := loadFile(explicit)
		return cfg, explicit, err
	}
	if p := os.Getenv(EnvConfig); p != "" {
		cfg, err := loadFile(p)
		return cfg, p, err
	}

	candidates := append([]string{}, systemPaths...)
	if ucp, err := UserConfigPath(); err == nil {
		candidates = append(candidates, ucp)
	}
	candidates = append(candidates, "config.yml")

	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		cfg, err := loadFile(p)
		return cfg, p, err
	}
	return Default(), "", nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
// Used by maintenance recording and config editing.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
