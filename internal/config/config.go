package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the intake service reads from the environment.
type Config struct {
	ServiceName    string
	ServiceVersion string

	PostgresURL string

	KafkaBrokers     []string
	SubmissionsTopic string
	AuditTopic       string
	PlacedTopic      string
	ConsumerGroup    string

	MetricsAddr string

	// RedisAddr switches the rate window to redis when set; empty keeps
	// the in-process window.
	RedisAddr     string
	RedisPassword string

	// AuditWebhookURL adds a webhook audit sink when set.
	AuditWebhookURL string
}

// Load reads the environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName:      getEnv("SERVICE_NAME", "order-intake"),
		ServiceVersion:   getEnv("SERVICE_VERSION", "0.1.0"),
		PostgresURL:      os.Getenv("POSTGRES_URL"),
		KafkaBrokers:     splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		SubmissionsTopic: getEnv("SUBMISSIONS_TOPIC", "order.submissions"),
		AuditTopic:       getEnv("AUDIT_TOPIC", "order.audit"),
		PlacedTopic:      getEnv("PLACED_TOPIC", "order.placed"),
		ConsumerGroup:    getEnv("CONSUMER_GROUP", "order-intake"),
		MetricsAddr:      getEnv("METRICS_ADDR", ":9090"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		AuditWebhookURL:  os.Getenv("AUDIT_WEBHOOK_URL"),
	}

	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("POSTGRES_URL is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
