package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains runtime configuration required by the service.
//
// JWT_KEY has no default: without it token issuance fails and every
// authenticated endpoint stays locked, which beats shipping a baked-in
// secret. AUTH_USERNAME/AUTH_PASSWORD default to the demo credential
// pair so the service runs out-of-the-box.
type Config struct {
	Addr  string `env:"ADDR" envDefault:":8080"`
	DBURL string `env:"DB_URL,required,notEmpty"`

	JWTKey          string `env:"JWT_KEY"`
	JWTIssuer       string `env:"JWT_ISSUER" envDefault:"gate-metrics-service"`
	JWTAudience     string `env:"JWT_AUDIENCE" envDefault:"gate-metrics-dashboard"`
	TokenExpiryMins int    `env:"TOKEN_EXPIRY_MINUTES" envDefault:"60"`

	AuthUsername string `env:"AUTH_USERNAME" envDefault:"testuser"`
	AuthPassword string `env:"AUTH_PASSWORD" envDefault:"password"`

	RateLimit       int           `env:"RATE_LIMIT" envDefault:"10"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`

	GeneratorInterval time.Duration `env:"GENERATOR_INTERVAL" envDefault:"1s"`
}

// Load reads required values from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
