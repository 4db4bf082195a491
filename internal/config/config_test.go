package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 5*time.Minute, cfg.CacheDuration())
	assert.Equal(t, "91", cfg.WhatsAppCountryCode)
	assert.Equal(t, "order-events", cfg.KafkaOrderTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "file:inventory.db")
	t.Setenv("CACHE_TTL", "60")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("REMINDER_GRACE_DAYS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "file:inventory.db", cfg.DatabaseURL)
	assert.Equal(t, time.Minute, cfg.CacheDuration())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3, cfg.ReminderGraceDays)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	for name, env := range map[string][2]string{
		"driver":     {"DATABASE_DRIVER", "mysql"},
		"cache ttl":  {"CACHE_TTL", "-1"},
		"grace days": {"REMINDER_GRACE_DAYS", "-2"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
