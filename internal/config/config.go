package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Default values for configuration fields.
const (
	DefaultConfigFile    = "rung.yml"
	DefaultMigrationsDir = "./migrations"
	DefaultLogLevel      = "info"
)

// Config holds the application configuration. Sources are merged in
// ascending precedence: defaults, config file, environment, flags.
type Config struct {
	DatabaseURL   string `env:"RUNG_DATABASE_URL"   yaml:"database_url"`
	MigrationsDir string `env:"RUNG_MIGRATIONS_DIR" yaml:"migrations_dir"`
	LogLevel      string `env:"RUNG_LOG_LEVEL"      yaml:"log_level"`
}

// New returns a Config populated with default values.
func New() *Config {
	return &Config{
		MigrationsDir: DefaultMigrationsDir,
		LogLevel:      DefaultLogLevel,
	}
}

// Load reads a YAML configuration file and returns a Config. Keys absent
// from the file keep their defaults. If allowMissing is true and the
// file does not exist, defaults are returned.
func Load(path string, allowMissing bool) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return cfg, nil
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// MergeEnv overrides config fields from RUNG_* environment variables.
func MergeEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	return nil
}
