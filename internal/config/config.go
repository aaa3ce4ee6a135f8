package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr     = ":8080"
	defaultTokenTTL = 72 * time.Hour
)

// Config holds environment-driven configuration.
type Config struct {
	Addr               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	TokenTTL           time.Duration
	CORSAllowOrigins   string
	AllowResetProducts bool
	LogLevel           slog.Level

	// Warnings collects values that were present but unusable and replaced by defaults.
	Warnings []string
}

// Load reads a .env file when one exists and then the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests don't touch the real environment.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		Addr:               getenv("ARTS_MARKET_ADDR"),
		DatabaseURL:        getenv("DATABASE_URL"),
		RedisURL:           getenv("REDIS_URL"),
		JWTSecret:          getenv("JWT_SECRET"),
		TokenTTL:           defaultTokenTTL,
		CORSAllowOrigins:   getenv("CORS_ALLOW_ORIGINS"),
		AllowResetProducts: getenv("ALLOW_RESET_PRODUCTS") == "1",
		LogLevel:           slog.LevelInfo,
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.CORSAllowOrigins == "" {
		cfg.CORSAllowOrigins = "*"
	}

	if raw := getenv("JWT_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid JWT_TTL %q, using %s", raw, defaultTokenTTL))
		} else {
			cfg.TokenTTL = ttl
		}
	}

	if raw := getenv("LOG_LEVEL"); raw != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.ToUpper(raw))); err != nil {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid LOG_LEVEL %q, using info", raw))
		} else {
			cfg.LogLevel = lvl
		}
	}

	return cfg
}
