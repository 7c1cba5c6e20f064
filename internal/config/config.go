package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	HTTP_ADDR string

	// Session tokens
	JWT_SECRET string
	JWT_TTL    time.Duration

	// Redis backs expiring tokens and the push fan-out channel
	REDIS_ADDR           string
	REDIS_PASSWORD       string
	REDIS_DB             int
	NOTIFICATION_CHANNEL string
	MAIL_CHANNEL         string
	PUSH_TIMEOUT         time.Duration

	PASSWORD_RESET_TTL time.Duration
	VERIFICATION_TTL   time.Duration

	// Civil dates (task_date, flowering_date, ...) are evaluated in this zone
	TIMEZONE string

	// Plant-health classifier and image storage
	CLASSIFIER_URL     string
	CLASSIFIER_TIMEOUT time.Duration
	S3_BUCKET          string
	S3_REGION          string
	S3_ENDPOINT        string

	S3_ACCESS_KEY_ID     string
	S3_SECRET_ACCESS_KEY string

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string
}

func ReadConfig() *Config {
	return &Config{
		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		HTTP_ADDR: GetEnvOrDefault("HTTP_ADDR", "0.0.0.0:6060"),

		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_TTL:    getDurationOrDefault("JWT_TTL", 24*time.Hour),

		REDIS_ADDR:           GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		REDIS_PASSWORD:       os.Getenv("REDIS_PASSWORD"),
		REDIS_DB:             getIntOrDefault("REDIS_DB", 0),
		NOTIFICATION_CHANNEL: GetEnvOrDefault("NOTIFICATION_CHANNEL", "finca:push"),
		MAIL_CHANNEL:         GetEnvOrDefault("MAIL_CHANNEL", "finca:mail"),
		PUSH_TIMEOUT:         getDurationOrDefault("PUSH_TIMEOUT", 5*time.Second),

		PASSWORD_RESET_TTL: getDurationOrDefault("PASSWORD_RESET_TTL", 15*time.Minute),
		VERIFICATION_TTL:   getDurationOrDefault("VERIFICATION_TTL", 48*time.Hour),

		TIMEZONE: GetEnvOrDefault("TIMEZONE", "America/Bogota"),

		CLASSIFIER_URL:     os.Getenv("CLASSIFIER_URL"),
		CLASSIFIER_TIMEOUT: getDurationOrDefault("CLASSIFIER_TIMEOUT", 30*time.Second),
		S3_BUCKET:          os.Getenv("S3_BUCKET"),
		S3_REGION:          GetEnvOrDefault("S3_REGION", "us-east-1"),
		S3_ENDPOINT:        os.Getenv("S3_ENDPOINT"),

		S3_ACCESS_KEY_ID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3_SECRET_ACCESS_KEY: os.Getenv("S3_SECRET_ACCESS_KEY"),

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

// Location returns the configured time zone, falling back to UTC when the
// zone database does not know it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TIMEZONE)
	if err != nil {
		slog.Warn("Unknown TIMEZONE, using UTC", slog.String("timezone", c.TIMEZONE), slog.Any("error", err))
		return time.UTC
	}
	return loc
}

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
