package config

import (
	"strings"

	"github.com/teranos/ceka/errors"
	"github.com/teranos/ceka/version"
)

var knownDrivers = []string{"", "sqlite", "sqlite3", "postgres", "postgresql", "mysql"}

// Validate checks the configuration against the running binary version
func (c *Config) Validate(running string) error {
	if c.Log.Enabled && strings.TrimSpace(c.Log.File) == "" {
		return errors.New("log.file cannot be empty when log.enabled is set")
	}

	driver := strings.ToLower(c.Import.Driver)
	known := false
	for _, d := range knownDrivers {
		if d == driver {
			known = true
			break
		}
	}
	if !known {
		return errors.WithHint(
			errors.Newf("import.driver %q is not supported", c.Import.Driver),
			"use sqlite3, postgres or mysql, or leave it empty to detect the driver")
	}

	if err := version.Satisfies(running, c.Ceka.Requires); err != nil {
		return errors.Wrap(err, "ceka.requires")
	}
	return nil
}
