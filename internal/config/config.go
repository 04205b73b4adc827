// Package config centralises configuration parsing for the future-me service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration values for the service.
type Config struct {
	HTTPAddress      string
	DataDir          string
	PostgresURL      string // empty selects the flat-file store
	FormulaFamily    string
	LeaderboardMode  string
	Horizons         []int
	KafkaBrokers     []string // empty disables event publishing
	PortraitAPIURL   string
	PortraitAPIToken string
	PortraitTimeout  time.Duration
}

// Load reads environment variables into Config, applying sensible defaults for local dev.
func Load() Config {
	cfg := Config{
		HTTPAddress:      getEnv("HTTP_ADDRESS", ":8080"),
		DataDir:          getEnv("DATA_DIR", "./data"),
		PostgresURL:      getEnv("POSTGRES_URL", ""),
		FormulaFamily:    getEnv("FORMULA_FAMILY", "direct-delta"),
		LeaderboardMode:  getEnv("LEADERBOARD_MODE", "upsert"),
		Horizons:         getIntsEnv("PROJECTION_HORIZONS", []int{3, 5, 10}),
		KafkaBrokers:     splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		PortraitAPIURL:   getEnv("PORTRAIT_API_URL", ""),
		PortraitAPIToken: getEnv("PORTRAIT_API_TOKEN", ""),
		PortraitTimeout:  getDurationEnv("PORTRAIT_TIMEOUT", 10*time.Second),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntsEnv(key string, fallback []int) []int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	out := make([]int, 0)
	for _, part := range splitAndTrim(value) {
		parsed, err := strconv.Atoi(part)
		if err != nil || parsed < 0 {
			return fallback
		}
		out = append(out, parsed)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
