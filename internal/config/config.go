package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment
// overrides. Search order: ~/.djsyncrc, $XDG_CONFIG_HOME/djsync/config.toml,
// ~/.config/djsync/config.toml
func Load() (*Config, error) {
	cfg := Default()

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

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

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".djsyncrc"),
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "djsync", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DJSYNC_STREAM_URL"); v != "" {
		cfg.Stream.URL = v
	}
	if v := os.Getenv("DJSYNC_TOKEN"); v != "" {
		cfg.Stream.Token = v
	}
	if v := os.Getenv("DJSYNC_RECONNECT_DELAY_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Stream.ReconnectDelayMS = i
		}
	}
	if v := os.Getenv("DJSYNC_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("DJSYNC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
