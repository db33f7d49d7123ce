// ABOUTME: Application configuration for touchbase
// ABOUTME: XDG JSON file with TOUCHBASE_* environment overrides
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

const (
	AppName        = "touchbase"
	ConfigFileName = "config.json"

	BackendCharm  = "charm"
	BackendLocal  = "local"
	BackendSQLite = "sqlite"

	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"
)

// Backends lists the accepted storage backends.
var Backends = []string{BackendCharm, BackendLocal, BackendSQLite}

// Config holds the settings every command needs.
type Config struct {
	Backend       string `json:"backend"`
	DataDir       string `json:"data_dir,omitempty"`
	DBPath        string `json:"db_path,omitempty"`
	LogLevel      string `json:"log_level,omitempty"`
	UpcomingLimit int    `json:"upcoming_limit,omitempty"`

	// Charm backend only
	CharmHost string `json:"charm_host,omitempty"`
	AutoSync  bool   `json:"auto_sync,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	dataDir := filepath.Join(xdg.DataHome, AppName)
	return &Config{
		Backend:       BackendCharm,
		DataDir:       dataDir,
		DBPath:        filepath.Join(dataDir, "touchbase.db"),
		LogLevel:      "info",
		UpcomingLimit: 6,
		CharmHost:     DefaultCharmHost,
	}
}

// Path returns where the config file lives.
func Path() string {
	return filepath.Join(xdg.DataHome, AppName, ConfigFileName)
}

// Load reads the config file, falling back to defaults when it is missing or unreadable
// JSON, then applies environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	switch {
	case err == nil:
		var fileCfg Config
		if jsonErr := json.Unmarshal(data, &fileCfg); jsonErr == nil {
			cfg.merge(fileCfg)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(other Config) {
	if other.Backend != "" {
		c.Backend = other.Backend
	}
	if other.DataDir != "" {
		c.DataDir = other.DataDir
		c.DBPath = filepath.Join(other.DataDir, "touchbase.db")
	}
	if other.DBPath != "" {
		c.DBPath = other.DBPath
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.UpcomingLimit > 0 {
		c.UpcomingLimit = other.UpcomingLimit
	}
	if other.CharmHost != "" {
		c.CharmHost = other.CharmHost
	}
	c.AutoSync = c.AutoSync || other.AutoSync
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TOUCHBASE_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("TOUCHBASE_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("TOUCHBASE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TOUCHBASE_UPCOMING_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid TOUCHBASE_UPCOMING_LIMIT %q", v)
		}
		c.UpcomingLimit = n
	}
	if v := os.Getenv("TOUCHBASE_CHARM_HOST"); v != "" {
		c.CharmHost = v
	}
	if v := os.Getenv("TOUCHBASE_AUTO_SYNC"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TOUCHBASE_AUTO_SYNC %q", v)
		}
		c.AutoSync = enabled
	}
	return nil
}

// Validate checks the backend name and log level.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	valid := false
	for _, b := range Backends {
		if c.Backend == b {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("unknown backend %q (want one of %s)", c.Backend, strings.Join(Backends, ", "))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// LocalDir is where the badger directory for the local backend lives.
func (c *Config) LocalDir() string {
	return filepath.Join(c.DataDir, "kv")
}

// Save writes the config file.
func (c *Config) Save() error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// UpdateFile applies mutate to the settings stored on disk and writes them back.
// Environment overrides and defaults are not persisted.
func UpdateFile(mutate func(*Config)) error {
	var fileCfg Config
	data, err := os.ReadFile(Path())
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &fileCfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to read config: %w", err)
	}

	mutate(&fileCfg)
	return fileCfg.Save()
}
