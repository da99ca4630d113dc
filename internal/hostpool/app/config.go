package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: SQLite database file (default: hostpool.db)
	DatabaseURL    string // Required for postgres: pgx connection string

	ProviderURL     string        // Optional: DNS provider API base URL (default: Cloudflare v4)
	ProviderTimeout time.Duration // Optional: per-request provider timeout (default: 30s)

	MasterKeyFile string // Optional: file holding the key that seals provider credentials
	MasterKey     string // Optional: inline master key, used when MasterKeyFile is unset

	JWKSURL     string        // One of JWKSURL/JWKSFile is required
	JWKSFile    string        // Static JWKS document on disk
	JWKSRefresh time.Duration // Optional: JWKSURL refresh interval (default: 15m)
	Issuer      string        // Optional: expected token issuer
	Audience    []string      // Optional: accepted token audiences, comma separated

	CardTTL       time.Duration // Optional: lifetime of unredeemed cards (default: 30 days)
	SweepInterval time.Duration // Optional: reconciliation sweep interval (default: 1h)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		DatabaseDriver:      getEnvOrDefault("HOSTPOOL_DATABASE_DRIVER", "sqlite"),
		DatabaseFile:        getEnvOrDefault("HOSTPOOL_DATABASE_FILE", "hostpool.db"),
		DatabaseURL:         os.Getenv("HOSTPOOL_DATABASE_URL"),
		ProviderURL:         os.Getenv("HOSTPOOL_PROVIDER_URL"),
		ProviderTimeout:     getEnvDurationOrDefault("HOSTPOOL_PROVIDER_TIMEOUT", 30*time.Second),
		MasterKeyFile:       os.Getenv("HOSTPOOL_MASTER_KEY_FILE"),
		MasterKey:           os.Getenv("HOSTPOOL_MASTER_KEY"),
		JWKSURL:             os.Getenv("HOSTPOOL_JWKS_URL"),
		JWKSFile:            os.Getenv("HOSTPOOL_JWKS_FILE"),
		JWKSRefresh:         getEnvDurationOrDefault("HOSTPOOL_JWKS_REFRESH", 15*time.Minute),
		Issuer:              os.Getenv("HOSTPOOL_ISSUER"),
		Audience:            splitList(os.Getenv("HOSTPOOL_AUDIENCE")),
		CardTTL:             getEnvDurationOrDefault("HOSTPOOL_CARD_TTL", 30*24*time.Hour),
		SweepInterval:       getEnvDurationOrDefault("HOSTPOOL_SWEEP_INTERVAL", time.Hour),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports settings the service cannot start with.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabaseFile == "" {
			return fmt.Errorf("HOSTPOOL_DATABASE_FILE is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("HOSTPOOL_DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported HOSTPOOL_DATABASE_DRIVER %q (want sqlite or postgres)", c.DatabaseDriver)
	}

	if c.JWKSURL == "" && c.JWKSFile == "" {
		return fmt.Errorf("one of HOSTPOOL_JWKS_URL or HOSTPOOL_JWKS_FILE is required")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("HOSTPOOL_SWEEP_INTERVAL must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Go duration syntax, e.g. "1h", "30m", "90s"
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
