// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play PlayConfig `toml:"play"`
	Sync SyncConfig `toml:"sync"`
}

// PlayConfig maps session-related settings.
type PlayConfig struct {
	Mode       *string `toml:"mode"`
	Difficulty *string `toml:"difficulty"`
}

// SyncConfig maps the optional remote result sink.
type SyncConfig struct {
	Endpoint *string `toml:"endpoint"`
	Player   *string `toml:"player"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
