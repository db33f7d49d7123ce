// ABOUTME: Charm KV connection settings derived from the touchbase config
// ABOUTME: Host and auto-sync live in config.json alongside the backend choice

package charm

import "github.com/harperreed/touchbase/config"

// AppName names the charm KV database.
const AppName = config.AppName

// Config holds charm connection settings.
type Config struct {
	// Host is the charm server hostname
	Host string

	// AutoSync pushes to the charm server after every write
	AutoSync bool
}

// DefaultConfig targets the default server with auto-sync off.
func DefaultConfig() *Config {
	return &Config{Host: config.DefaultCharmHost}
}

// ConfigFrom picks the charm settings out of the app config.
func ConfigFrom(cfg *config.Config) *Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if cfg.CharmHost != "" {
		c.Host = cfg.CharmHost
	}
	c.AutoSync = cfg.AutoSync
	return c
}
