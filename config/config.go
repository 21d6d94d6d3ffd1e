package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Environment   string
	ServiceName   string
	PublicBaseURL string

	// Logging
	LogLevel string

	// Redis configuration
	RedisURL string

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string
	PubNubUserID       string

	// Operator access. Empty hash keeps operator routes open.
	OperatorKeyHash string

	// Public route limits
	PublicRateLimit  int
	PublicRateWindow time.Duration

	// Batch sessions
	BatchSessionTTL time.Duration

	// Realtime publishing
	PublishBreakerTimeout time.Duration

	// Monitoring
	EnableMetrics   bool
	MetricsInterval time.Duration
}

// LoadConfig reads the environment, loading a .env file first when one exists.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		// Server
		Environment:   getEnv("ENVIRONMENT", "development"),
		ServiceName:   getEnv("SERVICE_NAME", "market-pos"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8090"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "localhost:6379"),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),
		PubNubUserID:       getEnv("PUBNUB_USER_ID", "market-pos-server"),

		OperatorKeyHash: getEnv("OPERATOR_KEY_HASH", ""),

		PublicRateLimit:  getEnvAsInt("PUBLIC_RATE_LIMIT", 30),
		PublicRateWindow: getEnvAsDuration("PUBLIC_RATE_WINDOW", "1m"),

		BatchSessionTTL: getEnvAsDuration("BATCH_SESSION_TTL", "12h"),

		PublishBreakerTimeout: getEnvAsDuration("PUBLISH_BREAKER_TIMEOUT", "30s"),

		// Monitoring
		EnableMetrics:   getEnvAsBool("ENABLE_METRICS", true),
		MetricsInterval: getEnvAsDuration("METRICS_INTERVAL", "30s"),
	}
}

// RealtimeEnabled reports whether PubNub keys were supplied.
func (c *Config) RealtimeEnabled() bool {
	return c.PubNubPublishKey != "" && c.PubNubSubscribeKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
