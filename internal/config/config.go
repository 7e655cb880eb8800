package config

import (
	"fmt"

	"github.com/tasklens/server/internal/env"
)

// Storage backend names accepted by TASKLENS_STORAGE_TYPE.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	// Server configuration
	HTTPPort string `env:"TASKLENS_HTTP_PORT" default:"8080"`
	Env      string `env:"TASKLENS_ENV" default:"dev"` // dev, prod

	// Storage configuration
	StorageType string `env:"TASKLENS_STORAGE_TYPE" default:"memory"` // memory, postgres
	PostgresDSN string `env:"TASKLENS_POSTGRES_DSN"`

	// Auth configuration: comma-separated "token:owner-uuid" pairs.
	// Token verification proper lives with the auth collaborator; this
	// only maps already-issued opaque tokens to owner identifiers.
	APIKeys string `env:"TASKLENS_API_KEYS"`

	// Observability configuration
	OTelEnabled bool   `env:"TASKLENS_OTEL_ENABLED" default:"false"`
	ServiceName string `env:"TASKLENS_SERVICE_NAME" default:"tasklens"`
}

// Load parses environment variables into a Config struct.
// It enforces the TASKLENS_ prefix and validates dependent settings.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageType {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("TASKLENS_POSTGRES_DSN is required when TASKLENS_STORAGE_TYPE is 'postgres'")
		}
	default:
		return fmt.Errorf("unknown TASKLENS_STORAGE_TYPE: %s", c.StorageType)
	}
	return nil
}
