// Package config loads tealdoc settings from TOML files and TEALDOC_* environment variables.
package config

// Config represents the tealdoc configuration
type Config struct {
	Output   OutputConfig   `mapstructure:"output" toml:"output"`
	Document DocumentConfig `mapstructure:"document" toml:"document"`
	Store    StoreConfig    `mapstructure:"store" toml:"store"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch"`

	// Sources lists the files merged into this config, lowest precedence first
	Sources []string `mapstructure:"-" toml:"-"`
}

// OutputConfig controls how generated documents are written
type OutputConfig struct {
	Format string `mapstructure:"format" toml:"format"` // json or yaml
	Pretty bool   `mapstructure:"pretty" toml:"pretty"` // indent JSON output
	Path   string `mapstructure:"path" toml:"path"`     // empty = stdout
}

// DocumentConfig controls the documentation pass
type DocumentConfig struct {
	Version                  string `mapstructure:"version" toml:"version"`
	AllowNamespaceCollisions bool   `mapstructure:"allow_namespace_collisions" toml:"allow_namespace_collisions"`
}

// StoreConfig configures the SQLite document history
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Path    string `mapstructure:"path" toml:"path"`
}

// WatchConfig configures manifest watching
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"` // 0 = rebuild on every event
}

// File permissions for config files and their directory
const (
	DefaultDirPermissions  = 0750
	DefaultFilePermissions = 0644
)
