// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort         = ":8080"
	DefaultEnv          = "local"
	DefaultCacheSize    = 256
	DefaultMaxBodyBytes = 10 << 20
)

type Config struct {
	Port          string
	Env           string
	AllowedOrigin string
	LogLevel      string
	LogJSON       bool
	// StoreDir selects the badger store. Empty keeps runs in memory.
	StoreDir       string
	StoreCacheSize int
	MaxBodyBytes   int64
}

// Load reads .env when present, then the process environment. Variables
// already set in the environment win over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	env := firstNonEmpty(os.Getenv("APP_ENV"), DefaultEnv)

	cacheSize, err := intEnv("STORE_CACHE_SIZE", DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	maxBody, err := intEnv("MAX_BODY_BYTES", DefaultMaxBodyBytes)
	if err != nil {
		return nil, err
	}
	if maxBody <= 0 {
		return nil, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", maxBody)
	}

	return &Config{
		Port:           normalizePort(os.Getenv("PORT")),
		Env:            env,
		AllowedOrigin:  firstNonEmpty(os.Getenv("CORS_ALLOWED_ORIGIN"), "*"),
		LogLevel:       firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
		LogJSON:        resolveLogJSON(env),
		StoreDir:       strings.TrimSpace(os.Getenv("STORE_DIR")),
		StoreCacheSize: cacheSize,
		MaxBodyBytes:   int64(maxBody),
	}, nil
}

func normalizePort(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPort
	}
	if strings.HasPrefix(raw, ":") {
		return raw
	}
	return ":" + raw
}

// resolveLogJSON honours LOG_FORMAT and otherwise uses JSON outside local.
func resolveLogJSON(env string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))) {
	case "json":
		return true
	case "text":
		return false
	}
	return !strings.EqualFold(env, DefaultEnv)
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
