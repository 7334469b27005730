// Package config reads the service configuration from the environment.
// main loads a .env file first (godotenv, skipped when ENV_CHECK is
// set), so every knob here can live in either place.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the full service configuration.
type Config struct {
	Port string

	// Position store
	StoreDriver string // "postgres" or "memory"
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Summary cache. Empty RedisAddr disables caching.
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SummaryCacheTTL time.Duration

	// Stale-entry sweeper. StaleAfter == 0 disables sweeping.
	StaleAfter    time.Duration
	SweepSchedule string

	LogLevel  string
	LogPretty bool
}

// Load reads the configuration from the environment, applying defaults
// for everything optional.
func Load() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		StoreDriver: getenv("STORE_DRIVER", "postgres"),
		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getint("REDIS_DB", 0),
		SummaryCacheTTL: getduration("SUMMARY_CACHE_TTL", 5*time.Second),

		StaleAfter:    getduration("STALE_AFTER", 2*time.Hour),
		SweepSchedule: getenv("SWEEP_SCHEDULE", "0 * * * * *"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogPretty: getbool("LOG_PRETTY", false),
	}
}

// DSN builds the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
