package config

// Config represents the core ARGX configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Patterns  PatternsConfig  `mapstructure:"patterns"`
	Reasoning ReasoningConfig `mapstructure:"reasoning"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DatabaseConfig configures the SQLite evidence store
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// PatternsConfig configures the fragment pattern library
type PatternsConfig struct {
	Dir   string `mapstructure:"dir"`   // directory of pattern YAML files (empty = built-ins only)
	Watch bool   `mapstructure:"watch"` // reload pattern files on change
}

// ReasoningConfig configures reasoning and validation thresholds
type ReasoningConfig struct {
	StrengthThreshold     float64 `mapstructure:"strength_threshold"`     // fragment validation gate (default: 0.7)
	CompletenessThreshold float64 `mapstructure:"completeness_threshold"` // fragment validation gate (default: 0.8)
	RiskMediumAt          float64 `mapstructure:"risk_medium_at"`         // risk score lower bound for MEDIUM (default: 30)
	RiskHighAt            float64 `mapstructure:"risk_high_at"`           // risk score lower bound for HIGH (default: 60)
}

// LoggingConfig configures log output
type LoggingConfig struct {
	JSON bool `mapstructure:"json"` // JSON structured output instead of console
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
