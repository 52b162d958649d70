package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultWebhookURL = "https://neuralgeniusai.com/webhook/fabimersan"

type Config struct {
	Port          string
	AllowedOrigin string
	LogLevel      slog.Level
	// Webhook
	WebhookURL     string
	WebhookTimeout time.Duration
	// Relay limits and session cookie lifetime
	MaxMessageLength int
	SessionMaxAge    time.Duration
	// Optional YAML file replacing the built-in classifier rules
	ClassifierRules string
	// Terminal client
	RelayURL string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:             getEnvDefault("PORT", "8080"),
		AllowedOrigin:    getEnvDefault("ALLOWED_ORIGIN", "*"),
		LogLevel:         getEnvLevelDefault("LOG_LEVEL", slog.LevelInfo),
		WebhookURL:       getEnvDefault("WEBHOOK_URL", DefaultWebhookURL),
		WebhookTimeout:   getEnvDurationDefault("WEBHOOK_TIMEOUT", 30*time.Second),
		MaxMessageLength: getEnvIntDefault("MAX_MESSAGE_LENGTH", 2000),
		SessionMaxAge:    getEnvDurationDefault("SESSION_COOKIE_MAX_AGE", 24*time.Hour),
		ClassifierRules:  os.Getenv("CLASSIFIER_RULES"),
		RelayURL:         getEnvDefault("RELAY_URL", "http://localhost:8080"),
	}
	if cfg.AllowedOrigin == "*" {
		slog.Warn("ALLOWED_ORIGIN is *; any site can call the relay")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer setting", "key", key, "value", v)
		return def
	}
	return n
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("ignoring invalid duration setting", "key", key, "value", v)
		return def
	}
	return d
}

func getEnvLevelDefault(key string, def slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		slog.Warn("ignoring invalid log level", "key", key, "value", v)
		return def
	}
	return l
}
