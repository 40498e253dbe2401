package config

import "github.com/spf13/viper"

// Config holds all runtime configuration for a siderea invocation.
// Values are populated from .siderea.yaml, SIDEREA_* env vars, and CLI flags.
type Config struct {
	// EphemerisDB points at the precise ephemeris samples database. Empty
	// means no database: positions come from the built-in analytic series.
	EphemerisDB string `mapstructure:"ephemeris_db"`
	// CacheSize bounds the position cache, in entries.
	CacheSize int `mapstructure:"cache_size"`
	// TablesPath optionally overrides the built-in computation tables.
	TablesPath string `mapstructure:"tables_path"`
	// TelemetryDir receives JSONL telemetry; empty disables emission.
	TelemetryDir string `mapstructure:"telemetry_dir"`
	Verbose      bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("ephemeris_db", "")
	viper.SetDefault("cache_size", 1024)
	viper.SetDefault("tables_path", "")
	viper.SetDefault("telemetry_dir", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
