package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 5000, cfg.RateLimitDevMax)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 10000, cfg.ExportMaxRows)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.False(t, cfg.MailEnabled())
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "memory")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_PostgresNeedsURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoad_RejectsUnknownDriverAndZone(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ANALYTICS_TIMEZONE", "Mars/Olympus")
	_, err = Load()
	assert.ErrorContains(t, err, "ANALYTICS_TIMEZONE")
}

func TestEffectiveRateLimit(t *testing.T) {
	cfg := &Config{AppEnv: "production", RateLimitMax: 100, RateLimitDevMax: 5000}
	assert.Equal(t, 100, cfg.EffectiveRateLimit())

	cfg.AppEnv = "development"
	assert.Equal(t, 5000, cfg.EffectiveRateLimit())
}
