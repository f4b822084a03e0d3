package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "JWT_SECRET", "JWT_EXPIRES_DAYS", "APP_ENV", "LOG_LEVEL", "RATE_LIMIT_RPS"} {
		t.Setenv(k, "")
	}
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 14*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 5, cfg.RateLimitRPS)
	assert.False(t, cfg.Production)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES_DAYS", "2")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 48*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.RateLimitBurst, "invalid numbers fall back to the default")
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}

func TestFromEnvProductionNeedsSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrMissingSecret)
}
