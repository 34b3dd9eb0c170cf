package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

const (
	BackendCRDB   = "crdb"
	BackendMemory = "memory"
)

type Config struct {
	HTTPAddr           string
	StoreBackend       string
	CRDBDSN            string
	MongoURI           string
	RedisAddr          string
	RabbitURL          string
	JWTSecret          string
	AdminTokenTTL      time.Duration
	OTLPEndpoint       string
	LogLevel           string
	OutboxPollInterval time.Duration
	RateLimitPerMinute int
	IdempotencyTTL     time.Duration

	// Only used with the memory backend, which has no admins table.
	AdminUsername string
	AdminPassword string
}

// Load reads the environment and validates it for serving.
func Load() (*Config, error) {
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads .env and the environment without validation.
func FromEnv() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		StoreBackend:       getenv("STORE_BACKEND", BackendCRDB),
		CRDBDSN:            os.Getenv("CRDB_DSN"),
		MongoURI:           os.Getenv("MONGO_URI"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RabbitURL:          os.Getenv("RABBIT_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AdminTokenTTL:      duration("ADMIN_TOKEN_TTL", 8*time.Hour),
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		OutboxPollInterval: duration("OUTBOX_POLL_INTERVAL", 5*time.Second),
		RateLimitPerMinute: integer("RATE_LIMIT_PER_MINUTE", 60),
		IdempotencyTTL:     duration("IDEMPOTENCY_TTL", time.Hour),
		AdminUsername:      os.Getenv("ADMIN_USERNAME"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
	}
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendCRDB:
		if c.CRDBDSN == "" {
			return errors.New("CRDB_DSN is required for the crdb store backend")
		}
	case BackendMemory:
	default:
		return errors.Newf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func integer(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
