package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "ALLOWED_ORIGIN", "LOG_LEVEL", "WEBHOOK_URL", "WEBHOOK_TIMEOUT",
		"MAX_MESSAGE_LENGTH", "SESSION_COOKIE_MAX_AGE", "CLASSIFIER_RULES", "RELAY_URL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "*", cfg.AllowedOrigin)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel)
	require.Equal(t, DefaultWebhookURL, cfg.WebhookURL)
	require.Equal(t, 30*time.Second, cfg.WebhookTimeout)
	require.Equal(t, 2000, cfg.MaxMessageLength)
	require.Equal(t, 24*time.Hour, cfg.SessionMaxAge)
	require.Empty(t, cfg.ClassifierRules)
	require.Equal(t, "http://localhost:8080", cfg.RelayURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WEBHOOK_URL", "http://hook.local/x")
	t.Setenv("WEBHOOK_TIMEOUT", "5s")
	t.Setenv("MAX_MESSAGE_LENGTH", "50")
	t.Setenv("SESSION_COOKIE_MAX_AGE", "1h")
	t.Setenv("CLASSIFIER_RULES", "/etc/formchat/rules.yaml")

	cfg := Load()
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel)
	require.Equal(t, "http://hook.local/x", cfg.WebhookURL)
	require.Equal(t, 5*time.Second, cfg.WebhookTimeout)
	require.Equal(t, 50, cfg.MaxMessageLength)
	require.Equal(t, time.Hour, cfg.SessionMaxAge)
	require.Equal(t, "/etc/formchat/rules.yaml", cfg.ClassifierRules)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("WEBHOOK_TIMEOUT", "soon")
	t.Setenv("MAX_MESSAGE_LENGTH", "-3")

	cfg := Load()
	require.Equal(t, slog.LevelInfo, cfg.LogLevel)
	require.Equal(t, 30*time.Second, cfg.WebhookTimeout)
	require.Equal(t, 2000, cfg.MaxMessageLength)
}
