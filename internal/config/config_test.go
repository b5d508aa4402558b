package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Minute, cfg.WriteTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("QBQ_ADDR", ":9999")
	t.Setenv("QBQ_REDIS_ADDR", "localhost:6379")
	t.Setenv("QBQ_CACHE_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("QBQ_CACHE_TTL", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
}
