package config_test

import (
	"testing"
	"time"

	"ledger-core/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "ledger", cfg.Mongo.Database)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Recovery.AgeThreshold)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRecoveryAgeFromEnv(t *testing.T) {
	t.Setenv("LEDGER_RECOVERY_AGE_MS", "1500")
	cfg := config.Load()
	assert.Equal(t, 1500*time.Millisecond, cfg.Recovery.AgeThreshold)
}

func TestLoadKafkaBrokersFromEnv(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	cfg := config.Load()
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
}
