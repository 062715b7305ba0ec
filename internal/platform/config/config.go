package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "absences/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr     string
	LogLevel string

	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig

	// AdminAPIToken guards the admin routes. AdminAPITokenHash, a bcrypt
	// hash of the token, takes precedence. Both empty disables the routes.
	AdminAPIToken     string
	AdminAPITokenHash string

	Catalogue CatalogueConfig
}

// RedisConfig configures the shared Redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the reference-data change consumer. No brokers
// disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

// CatalogueConfig bounds how long a loaded reference-data snapshot is served
// and how long a load from the store may take.
type CatalogueConfig struct {
	CacheTTL    time.Duration
	LoadTimeout time.Duration
}

const (
	defaultAddr         = ":8080"
	defaultKafkaTopic   = "reference-data.changed"
	defaultKafkaGroup   = "absences-catalogue"
	defaultCacheTTL     = 5 * time.Minute
	defaultLoadTimeout  = 5 * time.Second
	defaultRedisTimeout = 3 * time.Second
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:        envOr("ABSENCES_ADDR", defaultAddr),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", defaultRedisTimeout),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", defaultRedisTimeout),
		},
		Kafka: KafkaConfig{
			Brokers: pstrings.SplitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_TOPIC", defaultKafkaTopic),
			Group:   envOr("KAFKA_GROUP", defaultKafkaGroup),
		},
		AdminAPIToken:     os.Getenv("ADMIN_API_TOKEN"),
		AdminAPITokenHash: strings.TrimSpace(os.Getenv("ADMIN_API_TOKEN_HASH")),
		Catalogue: CatalogueConfig{
			CacheTTL:    envDuration("CATALOGUE_CACHE_TTL", defaultCacheTTL),
			LoadTimeout: envDuration("CATALOGUE_LOAD_TIMEOUT", defaultLoadTimeout),
		},
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// envInt falls back on missing, malformed or non-positive values.
func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
