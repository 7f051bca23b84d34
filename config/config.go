package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"hushhush/database"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// HTTP
	HTTPAddr string

	// Storage
	StorageDriver string
	DatabaseURL   string
	DatabaseName  string

	// Auth
	JWTSecret        string
	JWTExpiryMinutes int
	BcryptCost       int

	// Rate limiting; an empty RedisAddr keeps the limiter in memory
	RateLimitAuthPerMinute int
	RedisAddr              string
	RedisPassword          string
	RedisDB                int

	// NATS
	NATSEnabled bool
	NATSServers string

	// Discord announcements; disabled without a token
	DiscordToken     string
	DiscordChannelID string

	// OpenTelemetry
	OTelEnabled              bool
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelServiceName          string
	OTelExportIntervalMillis int

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL combines the base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// JWTExpiry returns the token lifetime
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryMinutes) * time.Minute
}

// load reads the environment, loading .env first when one exists
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8001"),

		StorageDriver: strings.ToLower(getEnvWithDefault("STORAGE_DRIVER", StorageDriverPostgres)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DatabaseName:  os.Getenv("DATABASE_NAME"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTExpiryMinutes: getIntWithDefault("JWT_EXPIRY_MINUTES", 1440),
		BcryptCost:       getIntWithDefault("BCRYPT_COST", 12),

		RateLimitAuthPerMinute: getIntWithDefault("RATE_LIMIT_AUTH_PER_MINUTE", 20),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getIntWithDefault("REDIS_DB", 0),

		NATSEnabled: os.Getenv("NATS_ENABLED") == "true",
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://localhost:4222"),

		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "hushhush"),
		OTelExportIntervalMillis: getIntWithDefault("OTEL_EXPORT_INTERVAL_MILLIS", 60000),

		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.Environment == "test" {
		return nil
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.StorageDriver == StorageDriverPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
		return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}
	return nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntWithDefault parses an integer variable, falling back on absence or parse failure
func getIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		HTTPAddr:                 ":0",
		StorageDriver:            StorageDriverMemory,
		JWTSecret:                "test-secret",
		JWTExpiryMinutes:         60,
		BcryptCost:               4,
		RateLimitAuthPerMinute:   1000,
		OTelExporterType:         "none",
		OTelServiceName:          "hushhush-test",
		OTelExportIntervalMillis: 1000,
		LogLevel:                 "debug",
		LogFormat:                "text",
		Environment:              "test",
	}
}
