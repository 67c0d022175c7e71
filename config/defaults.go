package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/ceka/logger"
)

// SetDefaults registers a default for every key. Environment variables only
// reach Unmarshal for keys viper knows, so every key needs one.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.enabled", false)
	v.SetDefault("log.file", logger.DefaultLogFile)

	v.SetDefault("output.block_welcome", false)
	v.SetDefault("output.verbose", false)

	v.SetDefault("import.driver", "")

	v.SetDefault("ceka.requires", "")
}
