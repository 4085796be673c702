package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"clubledger/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Ledger configuration
	Currency            string        // ISO currency for payments and bookkeeping rows
	RenewalWindowDays   int           // Days before a fiscal year end that roll a new membership into the next year
	ExpirySweepInterval time.Duration // How often the membership expiry sweep runs
	LowCreditThreshold  int64         // Balance at or below which members get a reminder task

	// Observability configuration
	LogLevel                 string
	MetricsAddr              string // Prometheus scrape address, empty disables
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

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
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		Currency:            getEnvWithDefault("CURRENCY", "EUR"),
		RenewalWindowDays:   30,
		ExpirySweepInterval: time.Hour,
		LowCreditThreshold:  3,

		LogLevel:                 getEnvWithDefault("LOG_LEVEL", "info"),
		MetricsAddr:              getEnvWithDefault("METRICS_ADDR", ":9102"),
		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "clubledger"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "none"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "otel-collector:4317"),
		OTelExportIntervalMillis: 15000,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if window := os.Getenv("RENEWAL_WINDOW_DAYS"); window != "" {
		parsed, err := strconv.Atoi(window)
		if err != nil || parsed < 0 || parsed > 180 {
			return nil, fmt.Errorf("RENEWAL_WINDOW_DAYS must be an integer between 0 and 180")
		}
		config.RenewalWindowDays = parsed
	}
	if interval := os.Getenv("EXPIRY_SWEEP_INTERVAL"); interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("EXPIRY_SWEEP_INTERVAL must be a positive duration")
		}
		config.ExpirySweepInterval = parsed
	}
	if threshold := os.Getenv("LOW_CREDIT_THRESHOLD"); threshold != "" {
		if parsed, err := strconv.ParseInt(threshold, 10, 64); err == nil {
			config.LowCreditThreshold = parsed
		}
	}
	if exportInterval := os.Getenv("OTEL_EXPORT_INTERVAL_MS"); exportInterval != "" {
		if parsed, err := strconv.Atoi(exportInterval); err == nil && parsed > 0 {
			config.OTelExportIntervalMillis = parsed
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
		Environment:         "test",
		Currency:            "EUR",
		RenewalWindowDays:   30,
		ExpirySweepInterval: time.Hour,
		LowCreditThreshold:  3,
		LogLevel:            "debug",
		OTelExporterType:    "none",
	}
}
