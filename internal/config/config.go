// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	HTTPAddr    string
	DatabaseURL string
	AppBaseURL  string

	// ActorTokenSecret signs the bearer tokens that identify the acting
	// user. Identity only; the engine enforces no permissions.
	ActorTokenSecret string

	CORSAllowAll bool
	CORSOrigins  []string

	// SMTP settings for outreach mail. Email is best-effort: when the host
	// is empty the disabled sender is used and logOutreach still records.
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string

	// Redis/asynq settings for the webhook outbox dispatcher.
	RedisURL         string
	AsynqQueue       string
	AsynqConcurrency int

	// MinIO settings for deal document storage.
	MinioEndpoint        string
	MinioAccessKey       string
	MinioSecretKey       string
	MinioUseSSL          bool
	MinioBucketDocuments string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:4200"),
		ActorTokenSecret: getEnv("ACTOR_TOKEN_SECRET", ""),
		CORSAllowAll:     strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200")),

		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Mandate Desk"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),

		RedisURL:         getEnv("REDIS_URL", ""),
		AsynqQueue:       getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: getEnvInt("ASYNQ_CONCURRENCY", 10),

		MinioEndpoint:        getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:       getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:       getEnv("MINIO_SECRET_KEY", ""),
		MinioUseSSL:          strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketDocuments: getEnv("MINIO_BUCKET_DOCUMENTS", "deal-documents"),
	}

	if containsWildcard(cfg.CORSOrigins) {
		cfg.CORSAllowAll = true
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ActorTokenSecret == "" {
		return nil, fmt.Errorf("ACTOR_TOKEN_SECRET is required")
	}
	if cfg.SMTPHost != "" && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP_HOST is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
