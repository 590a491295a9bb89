package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults establishes default values for all configuration keys
func SetDefaults(v *viper.Viper) {
	homeDir, _ := os.UserHomeDir()

	v.SetDefault("database.path", filepath.Join(homeDir, ".argx", "argx.db"))

	v.SetDefault("patterns.dir", "")
	v.SetDefault("patterns.watch", false)

	v.SetDefault("reasoning.strength_threshold", 0.7)
	v.SetDefault("reasoning.completeness_threshold", 0.8)
	v.SetDefault("reasoning.risk_medium_at", 30.0)
	v.SetDefault("reasoning.risk_high_at", 60.0)

	v.SetDefault("logging.json", false)
}
