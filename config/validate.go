package config

import (
	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/schema"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := schema.ParseFormat(c.Output.Format); err != nil {
		return errors.Wrap(err, "output.format")
	}

	if _, err := schema.ParseVersion(c.Document.Version); err != nil {
		return errors.Wrap(err, "document.version")
	}

	// Store path only matters when history is enabled
	if c.Store.Enabled && c.Store.Path == "" {
		return errors.NewInvalidRequestError("store.path cannot be empty when store.enabled is set")
	}

	// Debounce: 0 = no debounce, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.NewInvalidRequestError("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
