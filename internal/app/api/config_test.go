package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "courier-api", cfg.ServiceName)
	assert.Equal(t, "inr", cfg.PaymentCurrency)
	assert.True(t, cfg.PayFast.Sandbox)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Zero(t, cfg.SessionPurgeInterval)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("POSTGRES_DSN", "postgres://courier@localhost/courier")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("PAYFAST_MODE", "live")
	t.Setenv("PAYMENT_CURRENCY", "ZAR")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("SESSION_PURGE_INTERVAL", "15m")
	t.Setenv("ADMIN_EMAIL", "ops@example.com")
	t.Setenv("ADMIN_PASSWORD", "S3cure!pass")

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "postgres://courier@localhost/courier", cfg.DatabaseURL)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	assert.False(t, cfg.PayFast.Sandbox)
	assert.Equal(t, "zar", cfg.PaymentCurrency)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, 15*time.Minute, cfg.SessionPurgeInterval)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("session ttl", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "0s")
		_, err := loadConfig(newViper())
		assert.ErrorContains(t, err, "SESSION_TTL")
	})
	t.Run("purge interval", func(t *testing.T) {
		t.Setenv("SESSION_PURGE_INTERVAL", "soon")
		_, err := loadConfig(newViper())
		assert.ErrorContains(t, err, "SESSION_PURGE_INTERVAL")
	})
	t.Run("admin pair", func(t *testing.T) {
		t.Setenv("ADMIN_EMAIL", "ops@example.com")
		_, err := loadConfig(newViper())
		assert.ErrorContains(t, err, "ADMIN_EMAIL")
	})
}
