package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Marker store backends for the server-side dedup markers.
const (
	MarkerStoreMemory = "memory"
	MarkerStoreRedis  = "redis"
	MarkerStoreSQL    = "sql"
)

type Config struct {
	// Store
	HomeURL  string
	Currency string

	// API Configuration
	APIPort     string
	APIHost     string
	CORSOrigins []string

	// Sessions
	SessionCookie string
	SessionTTL    time.Duration

	// Dedup markers
	MarkerStore string
	RedisURL    string
	DatabaseURL string

	// Kafka
	KafkaBrokers       string
	KafkaEventsTopic   string
	KafkaTriggersTopic string
	KafkaGroupID       string
	KafkaMaxBytes      int

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	cfg := &Config{
		HomeURL:            getEnv("HOME_URL", ""),
		Currency:           getEnv("STORE_CURRENCY", "USD"),
		APIPort:            getEnv("API_PORT", "8080"),
		APIHost:            getEnv("API_HOST", "0.0.0.0"),
		CORSOrigins:        getEnvAsList("CORS_ORIGINS", []string{"*"}),
		SessionCookie:      getEnv("SESSION_COOKIE", "dl_session"),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 48*time.Hour),
		MarkerStore:        getEnv("MARKER_STORE", MarkerStoreMemory),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		DatabaseURL:        getEnv("DATABASE_URL", "sqlite://datalayer.db"),
		KafkaBrokers:       getEnv("KAFKA_BROKERS", ""),
		KafkaEventsTopic:   getEnv("KAFKA_EVENTS_TOPIC", "datalayer-events"),
		KafkaTriggersTopic: getEnv("KAFKA_TRIGGERS_TOPIC", "commerce-triggers"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "datalayer-worker"),
		KafkaMaxBytes:      getEnvAsInt("KAFKA_MAX_BYTES", 10e6),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HomeURL) == "" {
		return fmt.Errorf("HOME_URL is required")
	}
	switch c.MarkerStore {
	case MarkerStoreMemory, MarkerStoreRedis, MarkerStoreSQL:
	default:
		return fmt.Errorf("unknown MARKER_STORE %q", c.MarkerStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// Brokers splits KAFKA_BROKERS into addresses. Empty means Kafka is disabled.
func (c *Config) Brokers() []string {
	return splitList(c.KafkaBrokers)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if list := splitList(os.Getenv(key)); len(list) > 0 {
		return list
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
