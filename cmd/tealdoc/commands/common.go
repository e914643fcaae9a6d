// Package commands implements the tealdoc subcommands.
package commands

import (
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tealdoc/config"
	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/logger"
	"github.com/teranos/tealdoc/schema"
	"github.com/teranos/tealdoc/store"
	"github.com/teranos/tealdoc/walker"
)

// loadConfig reads the configuration named by --config, or the default cascade.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "invalid configuration"),
			"run 'tealdoc config show' to see the merged settings",
		)
	}
	logger.Debugw("Configuration loaded", "sources", cfg.Sources)
	if logger.Enabled(logger.OutputConfig) {
		for _, source := range cfg.Sources {
			pterm.Info.Printfln("Config: %s", source)
		}
	}
	return cfg, nil
}

// walkerOptions turns the document settings into walker options.
func walkerOptions(cfg *config.Config) []walker.Option {
	return []walker.Option{
		walker.WithVersion(cfg.Document.Version),
		walker.WithNamespaceCollisions(cfg.Document.AllowNamespaceCollisions),
		walker.WithLogger(logger.ComponentLogger("walker")),
	}
}

// outputFormat picks the document format: the flag, then the output file's
// extension, then the configured default.
func outputFormat(flag, path string, cfg *config.Config) (schema.Format, error) {
	switch {
	case flag != "":
		return schema.ParseFormat(flag)
	case path != "":
		return schema.FormatForPath(path), nil
	default:
		return schema.ParseFormat(cfg.Output.Format)
	}
}

// writeDocument encodes doc to path, or to stdout when path is empty.
func writeDocument(stdout io.Writer, doc schema.Document, format schema.Format, pretty bool, path string) error {
	data, err := doc.Encode(format, pretty)
	if err != nil {
		return err
	}
	if path == "" {
		_, err := stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), config.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, data, config.DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	logger.Infow("Document written",
		logger.FieldFile, path,
		logger.FieldFormat, string(format),
		logger.FieldSize, len(data))
	return nil
}

// readDocument loads a document, choosing the decoder from the extension.
func readDocument(path string) (schema.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return schema.Document{}, errors.Mark(errors.Wrapf(err, "document %s", path), errors.ErrNotFound)
		}
		return schema.Document{}, errors.Wrapf(err, "failed to read %s", path)
	}
	doc, err := schema.ParseDocument(data, schema.FormatForPath(path))
	if err != nil {
		return schema.Document{}, errors.Wrapf(err, "document %s", path)
	}
	return doc, nil
}

// sourceKey is the name a manifest's history is stored under.
func sourceKey(manifestPath string) string {
	if abs, err := filepath.Abs(manifestPath); err == nil {
		return abs
	}
	return filepath.Clean(manifestPath)
}

// openStore opens the configured history database.
func openStore(cfg *config.Config) (*store.Store, *sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), config.DefaultDirPermissions); err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create directory for %s", cfg.Store.Path)
	}
	db, err := store.OpenWithMigrations(cfg.Store.Path, logger.ComponentLogger("store"))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open history %s", cfg.Store.Path)
	}
	if logger.Enabled(logger.OutputStore) {
		pterm.Info.Printfln("History database: %s", cfg.Store.Path)
	}
	return store.New(db), db, nil
}

func debounce(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
}
