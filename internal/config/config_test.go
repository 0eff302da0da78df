package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "APP_ENV", "CORS_ALLOWED_ORIGIN", "LOG_LEVEL", "LOG_FORMAT",
		"STORE_DIR", "STORE_CACHE_SIZE", "MAX_BODY_BYTES",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := FromEnv()

		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Port)
		assert.Equal(t, "local", cfg.Env)
		assert.Equal(t, "*", cfg.AllowedOrigin)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.LogJSON)
		assert.Empty(t, cfg.StoreDir)
		assert.Equal(t, DefaultCacheSize, cfg.StoreCacheSize)
		assert.EqualValues(t, DefaultMaxBodyBytes, cfg.MaxBodyBytes)
	})

	t.Run("explicit values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "9090")
		t.Setenv("APP_ENV", "production")
		t.Setenv("CORS_ALLOWED_ORIGIN", "https://app.example.com")
		t.Setenv("STORE_DIR", "/var/lib/reposense")
		t.Setenv("STORE_CACHE_SIZE", "32")
		t.Setenv("MAX_BODY_BYTES", "1024")

		cfg, err := FromEnv()

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Port)
		assert.Equal(t, "production", cfg.Env)
		assert.Equal(t, "https://app.example.com", cfg.AllowedOrigin)
		assert.True(t, cfg.LogJSON)
		assert.Equal(t, "/var/lib/reposense", cfg.StoreDir)
		assert.Equal(t, 32, cfg.StoreCacheSize)
		assert.EqualValues(t, 1024, cfg.MaxBodyBytes)
	})

	t.Run("port with colon is kept", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", ":7000")

		cfg, err := FromEnv()

		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.Port)
	})

	t.Run("log format overrides env default", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("LOG_FORMAT", "text")

		cfg, err := FromEnv()

		require.NoError(t, err)
		assert.False(t, cfg.LogJSON)
	})

	t.Run("invalid numbers are rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_CACHE_SIZE", "lots")

		_, err := FromEnv()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "STORE_CACHE_SIZE")
	})

	t.Run("non-positive body limit is rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAX_BODY_BYTES", "0")

		_, err := FromEnv()
		assert.Error(t, err)
	})
}
