package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName        = "mutatag"
	configFileName = "config.toml"
	localFileName  = "mutatag.toml"

	// EnvPath names an extra config file, loaded last.
	EnvPath = "MUTATAG_CONFIG"

	defaultLogLevel   = "warn"
	defaultID3Version = 4
)

type Config struct {
	LogLevel string `koanf:"log_level"` // "debug", "info", "warn" or "error"

	// MP3 writing
	ID3 ID3Config `koanf:"id3"`
}

// ID3Config holds ID3v2 writing options.
type ID3Config struct {
	Version int `koanf:"version"` // 3 or 4 (default: 4)
}

// Load reads every existing config file in priority order (last wins).
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given config files in order, skipping missing ones.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{
		// 1. $XDG_CONFIG_HOME/mutatag/config.toml
		filepath.Join(xdg.ConfigHome, appName, configFileName),
		// 2. ./mutatag.toml
		localFileName,
	}

	// 3. $MUTATAG_CONFIG (highest priority)
	if p := os.Getenv(EnvPath); p != "" {
		paths = append(paths, expandPath(p))
	}

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

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		return c.LogLevel
	}
	return defaultLogLevel
}

// GetID3Version returns the ID3v2 version to write, defaulting to 4.
func (c *Config) GetID3Version() int {
	if c.ID3.Version == 3 || c.ID3.Version == 4 {
		return c.ID3.Version
	}
	return defaultID3Version
}
