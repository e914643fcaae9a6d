package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/tealdoc/errors"
)

// ProjectFileName is looked up from the working directory towards the filesystem root.
const ProjectFileName = "tealdoc.toml"

// Load reads the configuration.
//
// With an explicit path only that file is read. Otherwise files are merged in
// precedence order: user (~/.tealdoc/config.toml) < project (tealdoc.toml,
// nearest ancestor of the working directory). Environment variables
// (TEALDOC_OUTPUT_FORMAT, ...) override both.
func Load(configPath string) (*Config, error) {
	v, sources, err := newViper(configPath)
	if err != nil {
		return nil, err
	}
	return unmarshal(v, sources)
}

func unmarshal(v *viper.Viper, sources []string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Sources = sources
	return &cfg, nil
}

func newViper(configPath string) (*viper.Viper, []string, error) {
	v := viper.New()

	v.SetEnvPrefix("TEALDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
		return v, []string{configPath}, nil
	}

	sources, err := mergeConfigFiles(v, configPaths())
	if err != nil {
		return nil, nil, err
	}
	return v, sources, nil
}

// configPaths lists candidate files, lowest precedence first
func configPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".tealdoc", "config.toml"))
	}
	if project := findProjectConfig(); project != "" {
		paths = append(paths, project)
	}
	return paths
}

// findProjectConfig walks up the directory tree looking for tealdoc.toml.
// Returns the first match, or empty string if none found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges every existing file in paths into v, later files winning.
func mergeConfigFiles(v *viper.Viper, paths []string) ([]string, error) {
	var merged []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		tmp := viper.New()
		tmp.SetConfigFile(path)
		tmp.SetConfigType("toml")
		if err := tmp.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := v.MergeConfigMap(tmp.AllSettings()); err != nil {
			return nil, errors.Wrapf(err, "failed to merge config file %s", path)
		}
		merged = append(merged, path)
	}
	return merged, nil
}
