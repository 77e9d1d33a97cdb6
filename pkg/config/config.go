// Package config loads kitchen core settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the complete application configuration.
type Config struct {
	Log       LogConfig
	Ledger    LedgerConfig
	Reorder   ReorderConfig
	Explosion ExplosionConfig
	Store     StoreConfig
	Outbox    OutboxConfig
	Metrics   MetricsConfig
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

// LedgerConfig holds batch ledger settings.
type LedgerConfig struct {
	OutletID      string
	DefaultExpiry time.Duration
	ExpiringSoon  time.Duration
}

// ReorderConfig holds reorder monitor settings.
type ReorderConfig struct {
	// Timezone decides which calendar day an alert belongs to
	Timezone string
	Link     string
}

// ExplosionConfig holds demand explosion settings.
type ExplosionConfig struct {
	Workers int
}

// StoreConfig selects and configures the durable document store.
type StoreConfig struct {
	Backend       string
	MongoURI      string
	MongoDatabase string
	PostgresURL   string

	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// OutboxConfig holds write retry settings.
type OutboxConfig struct {
	RetryInterval time.Duration
	MaxElapsed    time.Duration
}

// MetricsConfig holds the metrics endpoint address; empty disables it.
type MetricsConfig struct {
	Addr string
}

// Backends accepted by STORE_BACKEND
const (
	BackendMemory   = "memory"
	BackendMongoDB  = "mongodb"
	BackendPostgres = "postgres"
)

// Load reads an optional .env file from the working directory, then builds
// a Config from environment variables.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadFiles is Load with explicit .env paths. Missing files are an error.
func LoadFiles(paths ...string) (Config, error) {
	if err := godotenv.Load(paths...); err != nil {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Ledger: LedgerConfig{
			OutletID:      getEnv("OUTLET_ID", "main"),
			DefaultExpiry: getEnvDuration("LEDGER_DEFAULT_EXPIRY", 30*24*time.Hour),
			ExpiringSoon:  getEnvDuration("LEDGER_EXPIRING_SOON", 3*24*time.Hour),
		},
		Reorder: ReorderConfig{
			Timezone: getEnv("REORDER_TIMEZONE", "UTC"),
			Link:     getEnv("REORDER_LINK", "/inventory"),
		},
		Explosion: ExplosionConfig{
			Workers: getEnvInt("EXPLOSION_WORKERS", 4),
		},
		Store: StoreConfig{
			Backend:                        strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
			MongoURI:                       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase:                  getEnv("MONGODB_DATABASE", "kitchen"),
			PostgresURL:                    getEnv("DATABASE_URL", ""),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Outbox: OutboxConfig{
			RetryInterval: getEnvDuration("OUTBOX_RETRY_INTERVAL", 500*time.Millisecond),
			MaxElapsed:    getEnvDuration("OUTBOX_MAX_ELAPSED", 30*time.Second),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ""),
		},
	}
}

// Location resolves the reorder timezone, falling back to UTC.
func (c ReorderConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
