// Package config loads tagsmith configuration from TOML files.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	InputDir  string `koanf:"input_dir"`  // folder tree to scan for albums
	OutputDir string `koanf:"output_dir"` // destination library root

	Listen string `koanf:"listen"` // HTTP API listen address

	MusicBrainz MusicBrainzConfig `koanf:"musicbrainz"`
	Tagger      TaggerConfig      `koanf:"tagger"`
}

// MusicBrainzConfig holds MusicBrainz-related configuration.
type MusicBrainzConfig struct {
	UserAgent string `koanf:"user_agent"` // override the client identifier header
}

// TaggerConfig holds tag-writing configuration.
type TaggerConfig struct {
	// StrictTrackMatch requires the track number parsed from a
	// filename to agree with the metadata position before track-level
	// tags are written (default: false, positional pairing).
	StrictTrackMatch bool `koanf:"strict_track_match"`
}

// Load reads config files in priority order (later wins) and applies
// defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Listen: ":8356",
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.InputDir = expandPath(cfg.InputDir)
	cfg.OutputDir = expandPath(cfg.OutputDir)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{
		filepath.Join(xdg.ConfigHome, "tagsmith", "config.toml"),
	}

	// ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
