// Package config loads process configuration from the environment so main
// stays lean. All variables are prefixed BIBLIO_.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server process needs to start.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// PostgresDSN selects the Postgres stores when set; the server runs on
	// in-memory stores when empty.
	PostgresDSN string

	Redis RedisConfig
	Kafka KafkaConfig
}

// RedisConfig holds Redis connection settings. Redis is optional; an empty
// URL disables the reminder publisher.
type RedisConfig struct {
	URL     string
	Channel string

	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds Kafka producer settings. Kafka is optional; no brokers
// disables the reminder event topic.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables, with development
// defaults for everything optional.
func FromEnv() Config {
	return Config{
		Addr:        envOr("BIBLIO_ADDR", ":8080"),
		PostgresDSN: os.Getenv("BIBLIO_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("BIBLIO_REDIS_URL"),
			Channel:      envOr("BIBLIO_REDIS_REMINDER_CHANNEL", "biblio.reminders"),
			PoolSize:     envInt("BIBLIO_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("BIBLIO_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("BIBLIO_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("BIBLIO_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("BIBLIO_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("BIBLIO_KAFKA_BROKERS")),
			Topic:   envOr("BIBLIO_KAFKA_REMINDER_TOPIC", "biblio.reminders"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
