package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/tealdoc/schema"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Output defaults
	v.SetDefault("output.format", string(schema.FormatJSON))
	v.SetDefault("output.pretty", true)
	v.SetDefault("output.path", "")

	// Document defaults
	v.SetDefault("document.version", schema.CurrentVersion)
	v.SetDefault("document.allow_namespace_collisions", false)

	// Store defaults (history is opt-in)
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", "tealdoc.db")

	// Watch defaults
	v.SetDefault("watch.debounce_ms", 100) // editors write in bursts
}

// Default returns a Config holding only the defaults.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}
