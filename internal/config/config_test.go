package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/gatemetrics")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "testuser", cfg.AuthUsername)
	assert.Equal(t, "password", cfg.AuthPassword)
	assert.Equal(t, 60, cfg.TokenExpiryMins)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, time.Second, cfg.GeneratorInterval)
	assert.Empty(t, cfg.JWTKey, "no baked-in signing secret")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/gatemetrics")
	t.Setenv("ADDR", ":9090")
	t.Setenv("JWT_KEY", "secret")
	t.Setenv("TOKEN_EXPIRY_MINUTES", "15")
	t.Setenv("RATE_LIMIT", "100")
	t.Setenv("GENERATOR_INTERVAL", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "secret", cfg.JWTKey)
	assert.Equal(t, 15, cfg.TokenExpiryMins)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, 250*time.Millisecond, cfg.GeneratorInterval)
}
