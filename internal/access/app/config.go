package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer         string // Required: issuer claim for tokens (default: truenorth-access)
	BootstrapToken string // Optional: token required to perform bootstrap; empty disables the endpoint

	NumKeys              int           // Optional: number of signing keys to generate (default: 3, min: 1, max: 10)
	KeyStorageMode       string        // Optional: key storage mode (ephemeral, persistent) (default: ephemeral)
	KeyGracePeriod       time.Duration // Optional: grace period for retired keys (default: 30 days)
	MasterKeyPath        string        // Optional: path to master encryption key file (for persistent keys)
	DatabaseFile         string        // Optional: path to SQLite database file (default: ./access.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	BillingAPIURL        string // Optional: billing provider API base URL; empty serves cached plans only
	BillingAPIKey        string // Optional: billing provider API key
	BillingWebhookSecret string // Optional: shared HMAC secret; empty rejects all webhook deliveries
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("ACCESS_ISSUER", "truenorth-access"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"),

		KeyStorageMode: getEnvOrDefault("ACCESS_KEY_STORAGE_MODE", "ephemeral"),
		KeyGracePeriod: getEnvDurationOrDefault("ACCESS_KEY_GRACE_PERIOD", 30*24*time.Hour),
		MasterKeyPath:  os.Getenv("ACCESS_MASTER_KEY_PATH"),
		DatabaseFile:   getEnvOrDefault("ACCESS_DATABASE_FILE", "access.db"),
		PepperFile:     getEnvOrDefault("ACCESS_PEPPER_FILE", "pepper"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		BillingAPIURL:        os.Getenv("BILLING_API_URL"),
		BillingAPIKey:        os.Getenv("BILLING_API_KEY"),
		BillingWebhookSecret: os.Getenv("BILLING_WEBHOOK_SECRET"),
	}

	// Number of signing keys (default handled by the key manager)
	if numKeysStr := os.Getenv("ACCESS_NUM_KEYS"); numKeysStr != "" {
		if numKeys, err := strconv.Atoi(numKeysStr); err == nil {
			cfg.NumKeys = numKeys
		}
	}

	return cfg
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

	// Parses as a Go duration ("1h", "30m", "90s") or bare integer minutes.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
