// Package config holds the API server's runtime settings, parsed from the
// environment. Database connection settings live in pkg/database.
package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr           string        `env:"API_ADDR" envDefault:"0.0.0.0:8431"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"dev-secret"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:5174,http://localhost:5175"`
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"10"`
}

// Load parses the config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must not be empty")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("TOKEN_TTL must be positive")
	}
	return cfg, nil
}
