// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

const (
	dataDirName       = ".ticklist"
	userConfigDirName = "ticklist"
	configFileName    = "config.toml"
	sqliteFileName    = "ticklist.db"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Config holds the full configuration for ticklist.
type Config struct {
	DataDir string        `toml:"data_dir"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`

	// Sources lists the config files that were actually read, in load
	// order. Informational only, for `ticklist config`.
	Sources []string `toml:"-"`
}

// StorageConfig selects where tasks and the theme are persisted.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Timestamps bool   `toml:"timestamps"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.config/ticklist/config.toml or OS equivalent)
// 3. Project config file (ticklist.toml or .ticklist.toml in current directory)
// 4. Environment variables
// CLI flags are applied on top by the command layer.
//
// When explicitPath is non-empty only that file is read, and a read
// failure is an error rather than a silent skip.
func Load(explicitPath string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if explicitPath != "" {
		path := expandPath(explicitPath)
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("load config %s: %w", explicitPath, err)
		}
		cfg.Sources = append(cfg.Sources, path)
	} else {
		if path := findUserConfigFile(); path != "" {
			if err := loadConfigFile(cfg, path); err != nil {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
			cfg.Sources = append(cfg.Sources, path)
		}
		if path := findProjectConfigFile(); path != "" {
			if err := loadConfigFile(cfg, path); err != nil {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
			cfg.Sources = append(cfg.Sources, path)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend)
	}
}

// SQLitePath returns the database file to use for the sqlite backend.
func (c *Config) SQLitePath() string {
	if c.Storage.Path != "" {
		return expandPath(c.Storage.Path)
	}
	return filepath.Join(c.DataDir, sqliteFileName)
}

// LogFilePath returns the default diagnostic log destination.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.DataDir, "ticklist.log")
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir()
	cfg.Storage.Backend = BackendFile
	cfg.Storage.Path = ""
	cfg.Log.Level = "warn"
	cfg.Log.Format = "text"
	cfg.Log.Timestamps = true
}

// DefaultDataDir returns ~/.ticklist, or the current directory when the
// home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dataDirName
	}
	return filepath.Join(home, dataDirName)
}

// findUserConfigFile looks for a user-level config file in the OS-specific
// config directory. Returns empty string if none exists.
func findUserConfigFile() string {
	dir := osUserConfigDir()
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, userConfigDirName, configFileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range []string{"ticklist.toml", ".ticklist.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TICKLIST_DATA_DIR"); v != "" {
		cfg.DataDir = expandPath(v)
	}
	if v := os.Getenv("TICKLIST_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("TICKLIST_DB_PATH"); v != "" {
		cfg.Storage.Path = expandPath(v)
	}
	if v := os.Getenv("TICKLIST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TICKLIST_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TICKLIST_LOG_TIMESTAMPS"); v != "" {
		cfg.Log.Timestamps = boolFromString(v)
	}
}

// expandPath expands a leading ~ to the user home directory.
func expandPath(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
