package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "market-service")

	cfg := Load()
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "9090", cfg.MetricsPort)
	assert.Equal(t, "bet_placed", cfg.TopicBetPlaced)
	assert.Equal(t, "event_created", cfg.TopicEventCreated)
	assert.Equal(t, "bet_feed_broadcast", cfg.RedisPubSubChannel)
}

func TestLoadWorkerPorts(t *testing.T) {
	t.Setenv("SERVICE_NAME", "bet-feed-worker")

	cfg := Load()
	assert.Empty(t, cfg.HTTPPort)
	assert.Equal(t, "9091", cfg.MetricsPort)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "market-service")
	t.Setenv("ENV", "prod")
	t.Setenv("HTTP_PORT", "8888")
	t.Setenv("KAFKA_TOPIC_BET_PLACED", "bets_v2")

	cfg := Load()
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "8888", cfg.HTTPPort)
	assert.Equal(t, "bets_v2", cfg.TopicBetPlaced)
}
