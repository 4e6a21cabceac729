package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvDataDir overrides the data directory. Tests rely on this to
	// keep state out of the real home.
	EnvDataDir = "UPKEEP_DATA_DIR"
	// EnvDBPath overrides the database file location.
	EnvDBPath = "UPKEEP_DB"
	// EnvConfig points at an explicit configuration file.
	EnvConfig = "UPKEEP_CONFIG"
)

// DataDir returns the directory used to store upkeep state.
func DataDir() (string, error) {
	if d := os.Getenv(EnvDataDir); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".upkeep"), nil
}

// EnsureDataDir creates the data directory if needed and returns it.
func EnsureDataDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d, 0o700); err != nil {
		return "", err
	}
	return d, nil
}

// DBPath returns the full path to the SQLite database file.
func DBPath() (string, error) {
	if p := os.Getenv(EnvDBPath); p != "" {
		return p, nil
	}
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "upkeep.db"), nil
}

// UserConfigPath returns the per-user configuration file location,
// honoring XDG_CONFIG_HOME.
func UserConfigPath() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "upkeep", "config.yml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "upkeep", "config.yml"), nil
}
