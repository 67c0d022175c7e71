package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/ceka/errors"
)

// Load reads the configuration from every source
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return LoadFrom(wd, home)
}

// LoadFrom reads the configuration as Load does, searching for the project
// file from dir and for the user file under home. Either may be empty to skip it.
func LoadFrom(dir, home string) (*Config, error) {
	v := newViper()

	var paths []string
	if home != "" {
		paths = append(paths, filepath.Join(home, UserDirName, UserFileName))
	}
	if dir != "" {
		if project := FindProjectConfig(dir); project != "" {
			paths = append(paths, project)
		}
	}
	if err := mergeConfigFiles(v, paths); err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals the configuration held by v
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// LoadFromFile reads a single configuration file over the defaults
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return LoadWithViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// FindProjectConfig walks up from dir looking for ceka.toml.
// Returns the first path found, or an empty string.
func FindProjectConfig(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges existing files in order, later files winning.
// Merged values stay below environment variables.
func mergeConfigFiles(v *viper.Viper, paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		file := viper.New()
		file.SetConfigFile(path)
		file.SetConfigType("toml")
		if err := file.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := v.MergeConfigMap(file.AllSettings()); err != nil {
			return errors.Wrapf(err, "failed to merge config file %s", path)
		}
	}
	return nil
}
