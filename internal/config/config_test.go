package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 2, cfg.StockAlertThreshold)
	assert.Equal(t, 300, cfg.CatalogCacheTTLSeconds)
	assert.Equal(t, 8, cfg.JWTExpirationHours)
	assert.Equal(t, "secreto", cfg.JWTSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STOCK_ALERT_THRESHOLD", "5")
	t.Setenv("CORS_ORIGIN", "https://chapulina.com")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 5, cfg.StockAlertThreshold)
	assert.Equal(t, "https://chapulina.com", cfg.CORSOrigin)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
}
