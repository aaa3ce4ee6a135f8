package config

import (
	"log/slog"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv(envMap(nil))

	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.TokenTTL != 72*time.Hour {
		t.Fatalf("expected default ttl, got %s", cfg.TokenTTL)
	}
	if cfg.CORSAllowOrigins != "*" {
		t.Fatalf("expected wildcard cors, got %q", cfg.CORSAllowOrigins)
	}
	if cfg.AllowResetProducts {
		t.Fatalf("reset endpoint must be disabled by default")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("expected info level, got %s", cfg.LogLevel)
	}
	if len(cfg.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", cfg.Warnings)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg := FromEnv(envMap(map[string]string{
		"ARTS_MARKET_ADDR":     ":9090",
		"DATABASE_URL":         "postgres://localhost/arts",
		"REDIS_URL":            "redis://localhost:6379/0",
		"JWT_SECRET":           "s3cret",
		"JWT_TTL":              "1h",
		"ALLOW_RESET_PRODUCTS": "1",
		"LOG_LEVEL":            "debug",
	}))

	if cfg.Addr != ":9090" || cfg.DatabaseURL == "" || cfg.RedisURL == "" || cfg.JWTSecret != "s3cret" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", cfg.TokenTTL)
	}
	if !cfg.AllowResetProducts {
		t.Fatalf("expected reset endpoint enabled")
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("expected debug level, got %s", cfg.LogLevel)
	}
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	cfg := FromEnv(envMap(map[string]string{
		"JWT_TTL":   "forever",
		"LOG_LEVEL": "loud",
	}))

	if cfg.TokenTTL != 72*time.Hour {
		t.Fatalf("expected fallback ttl, got %s", cfg.TokenTTL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("expected fallback level, got %s", cfg.LogLevel)
	}
	if len(cfg.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", cfg.Warnings)
	}
}
