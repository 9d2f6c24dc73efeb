package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DefaultSlotCatalog, cfg.SlotCatalog)
	assert.Len(t, cfg.SlotCatalog, 13)
	assert.Equal(t, 120*time.Second, cfg.HoldTTL)
	assert.Equal(t, time.Minute, cfg.CacheCleanupInterval)
	assert.Equal(t, time.Duration(0), cfg.AutoCleanupInterval)
	assert.Equal(t, 60, cfg.RateLimitPerMin)
	assert.False(t, cfg.TelegramEnabled())
	assert.ErrorIs(t, cfg.RequireDB(), ErrDBDSNRequired)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DB_DSN", "postgres://localhost/barbershop")
	t.Setenv("SLOT_CATALOG", "08:00, 08:30,09:00")
	t.Setenv("HOLD_TTL", "90s")
	t.Setenv("AUTO_CLEANUP_INTERVAL", "24h")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("BARBER_CHAT_ID", "42")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.NoError(t, cfg.RequireDB())
	assert.Equal(t, []string{"08:00", "08:30", "09:00"}, cfg.SlotCatalog)
	assert.Equal(t, 90*time.Second, cfg.HoldTTL)
	assert.Equal(t, 24*time.Hour, cfg.AutoCleanupInterval)
	assert.Equal(t, int64(42), cfg.BarberChatID)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SLOT_CATALOG":       "09:00,9h",
		"HOLD_TTL":           "0s",
		"RATE_LIMIT_PER_MIN": "0",
		"TIMEZONE":           "Mars/Olympus",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("TIMEZONE", "UTC")
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseCatalog(t *testing.T) {
	catalog, err := ParseCatalog([]string{"10:00", "09:00,09:30"})
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "09:00", "09:30"}, catalog)

	_, err = ParseCatalog([]string{"09:00,09:00"})
	assert.Error(t, err)

	_, err = ParseCatalog([]string{" , "})
	assert.Error(t, err)
}
