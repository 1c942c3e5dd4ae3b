package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://garage@localhost/garage")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.IsProduction())
	assert.Error(t, cfg.RequireJWTSecret())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://garage@localhost/garage")
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("REPORT_CACHE_TTL", "90s")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 90*time.Second, cfg.ReportCacheTTL)
	assert.NoError(t, cfg.RequireJWTSecret())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}
