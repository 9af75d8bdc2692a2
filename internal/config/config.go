// Package config provides configuration management for the FlipperZap service.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Upload      UploadConfig
	AI          AIConfig
	Marketplace MarketplaceConfig
	Worker      WorkerConfig
	RateLimit   RateLimitConfig
	Logging     LoggingConfig
	Environment string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port string
}

// RedisConfig holds Redis configuration. Addr empty disables the scan cache.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	MaxConnections int
}

// CacheConfig holds scan cache configuration
type CacheConfig struct {
	TTL time.Duration
}

// UploadConfig holds image upload configuration
type UploadConfig struct {
	Dir          string
	MaxSizeBytes int64
}

// AIConfig holds AI analysis provider configuration
type AIConfig struct {
	UseMock      bool
	MockDelay    time.Duration
	OpenAIAPIKey string
}

// MarketplaceConfig holds marketplace provider configuration
type MarketplaceConfig struct {
	UseMock      bool
	MockDelay    time.Duration
	EbayClientID string
	AmazonKey    string
}

// WorkerConfig holds analysis worker pool configuration
type WorkerConfig struct {
	Concurrency     int
	QueueSize       int
	AnalysisTimeout time.Duration
}

// RateLimitConfig holds API rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// .env file is optional - environment variables can be set directly
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", ""),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             getEnvAsInt("REDIS_DB", 0),
			MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 50),
		},
		Cache: CacheConfig{
			TTL: getEnvAsDuration("CACHE_TTL", 30*time.Second),
		},
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "uploads"),
			MaxSizeBytes: getEnvAsInt64("UPLOAD_MAX_SIZE_BYTES", 10*1024*1024),
		},
		AI: AIConfig{
			UseMock:      getEnvAsBool("USE_MOCK_AI", true),
			MockDelay:    getEnvAsDuration("MOCK_AI_DELAY", 2*time.Second),
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		},
		Marketplace: MarketplaceConfig{
			UseMock:      getEnvAsBool("USE_MOCK_MARKETPLACE", true),
			MockDelay:    getEnvAsDuration("MOCK_MARKETPLACE_DELAY", 1500*time.Millisecond),
			EbayClientID: getEnv("EBAY_CLIENT_ID", ""),
			AmazonKey:    getEnv("AMAZON_ACCESS_KEY", ""),
		},
		Worker: WorkerConfig{
			Concurrency:     getEnvAsInt("WORKER_CONCURRENCY", 4),
			QueueSize:       getEnvAsInt("WORKER_QUEUE_SIZE", 64),
			AnalysisTimeout: getEnvAsDuration("ANALYSIS_TIMEOUT", 60*time.Second),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsInt("RATE_LIMIT_RPS", 50),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Environment: getEnv("APP_ENV", "development"),
	}

	return config, nil
}

// AIMode returns the provider label reported by health endpoints.
func (c *Config) AIMode() string {
	if c.AI.UseMock || c.AI.OpenAIAPIKey == "" {
		return "mock"
	}
	return "configured"
}

// MarketplaceMode returns the provider label reported by health endpoints.
func (c *Config) MarketplaceMode() string {
	if c.Marketplace.UseMock || (c.Marketplace.EbayClientID == "" && c.Marketplace.AmazonKey == "") {
		return "mock"
	}
	return "configured"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsInt64 gets an environment variable as an int64 with a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a bool with a default value.
// Accepts the strconv.ParseBool forms (1/t/true, 0/f/false, any case);
// unset or unparseable values keep the default.
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
