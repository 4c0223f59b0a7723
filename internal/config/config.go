package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.stagehandrc, $XDG_CONFIG_HOME/stagehand/config.toml, ~/.config/stagehand/config.toml
func Load() (*Config, error) {
	cfg := Default()

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultPath returns where config init writes its file.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "stagehand", "config.toml")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".stagehandrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "stagehand", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Player
	if v := os.Getenv("STAGEHAND_PAGE_URL"); v != "" {
		cfg.Player.PageURL = v
	}
	if v := os.Getenv("STAGEHAND_BASE_URL"); v != "" {
		cfg.Player.BaseURL = v
	}
	if v := os.Getenv("STAGEHAND_ADAPTER"); v != "" {
		cfg.Player.Adapter = v
	}
	if v := os.Getenv("STAGEHAND_INTERVAL_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Player.IntervalMs = i
		}
	}

	// API
	if v := os.Getenv("STAGEHAND_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("STAGEHAND_API_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = i
		}
	}

	// Presence
	if v := os.Getenv("STAGEHAND_PRESENCE_URL"); v != "" {
		cfg.Presence.AgentURL = v
	}

	// Scrobble
	if v := os.Getenv("STAGEHAND_SCROBBLE_URL"); v != "" {
		cfg.Scrobble.URL = v
	}

	// Log
	if v := os.Getenv("STAGEHAND_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("STAGEHAND_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
