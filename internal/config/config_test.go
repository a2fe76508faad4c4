package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "redis", cfg.StoreBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoad_CustomPort(t *testing.T) {
	t.Setenv("CATALOG_HTTP_PORT", "9090")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("CATALOG_HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_MemoryBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.StoreBackend)
}

func TestLoad_InvalidStoreBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid store backend")
}

func TestLoad_CustomRedisAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.prod:6380")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "redis.prod:6380", cfg.RedisAddr)
}
