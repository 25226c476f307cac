package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "AB"

// Config holds all application configuration.
type Config struct {
	Store     StoreConfig
	Server    ServerConfig
	Logging   LogConfig
	Bootstrap BootstrapConfig
}

// StoreConfig selects the sample store. A postgres:// URL selects PostgreSQL.
type StoreConfig struct {
	Path string `envconfig:"DB_PATH" default:"./abtest.db"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port  int    `envconfig:"PORT" default:"8080"`
	Token string `envconfig:"TOKEN"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// BootstrapConfig holds resampling defaults.
type BootstrapConfig struct {
	Iterations int `envconfig:"BOOTSTRAP_ITERATIONS" default:"10000"`
	Workers    int `envconfig:"BOOTSTRAP_WORKERS" default:"0"`
}

// Load reads an optional .env file, then the AB_* environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Bootstrap.Iterations <= 0 {
		return nil, fmt.Errorf("%s_BOOTSTRAP_ITERATIONS must be positive, got %d", Prefix, cfg.Bootstrap.Iterations)
	}
	if cfg.Bootstrap.Workers < 0 {
		return nil, fmt.Errorf("%s_BOOTSTRAP_WORKERS must not be negative, got %d", Prefix, cfg.Bootstrap.Workers)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Path: "./abtest.db"},
		Server: ServerConfig{Port: 8080},
		Logging: LogConfig{
			Level: "info",
		},
		Bootstrap: BootstrapConfig{Iterations: 10000},
	}
}
