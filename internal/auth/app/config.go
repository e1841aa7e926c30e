package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all environment-based configuration for grantd.
type Config struct {
	// HTTP server port
	Port int `env:"PORT" envDefault:"8080"`

	// Environment (dev, staging, prod); controls log decoration
	Env string `env:"ENV" envDefault:"dev"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Path to the YAML seed file defining clients and users. When empty the
	// built-in development seed is used.
	SeedFile string `env:"GRANTD_SEED_FILE"`

	// Token lifetimes
	CodeTTL   time.Duration `env:"GRANTD_CODE_TTL" envDefault:"5m"`
	AccessTTL time.Duration `env:"GRANTD_ACCESS_TTL" envDefault:"1h"`

	// Lifecycle
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"5m"`
}

// LoadConfig reads configuration from environment variables.
// It first attempts to load a .env file if present, then parses env vars.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.CodeTTL <= 0 {
		return fmt.Errorf("GRANTD_CODE_TTL must be positive")
	}
	if c.AccessTTL <= 0 {
		return fmt.Errorf("GRANTD_ACCESS_TTL must be positive")
	}
	return nil
}
