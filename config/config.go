// Package config loads ceka's optional TOML configuration.
//
// Sources, lowest precedence first: built-in defaults, ~/.ceka/config.toml,
// the nearest ceka.toml found walking up from the working directory, and
// CEKA_* environment variables. Command line flags override all of them.
package config

// Config is the whole configuration
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Output OutputConfig `mapstructure:"output"`
	Import ImportConfig `mapstructure:"import"`
	Ceka   CekaConfig   `mapstructure:"ceka"`
}

// LogConfig configures the optional JSON logfile
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	File    string `mapstructure:"file"`
}

// OutputConfig configures console output
type OutputConfig struct {
	BlockWelcome bool `mapstructure:"block_welcome"` // suppress the banner
	Verbose      bool `mapstructure:"verbose"`
}

// ImportConfig configures sql mode
type ImportConfig struct {
	// Driver forces a database driver (sqlite3, postgres, mysql) for every
	// connection descriptor; empty detects it from the descriptor
	Driver string `mapstructure:"driver"`
}

// CekaConfig pins the binary version a project expects
type CekaConfig struct {
	Requires string `mapstructure:"requires"` // semver constraint, e.g. ">= 1.2"
}

// File names searched for configuration
const (
	ProjectFileName = "ceka.toml"
	UserDirName     = ".ceka"
	UserFileName    = "config.toml"
	EnvPrefix       = "CEKA"
)
