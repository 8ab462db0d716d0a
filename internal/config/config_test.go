package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "CHAT_TEMPERATURE", "CHAT_MAX_TOKENS", "DEFAULT_CLIENT_ID", "NATS_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Fatalf("unexpected port: %s", cfg.ServerPort)
	}
	if cfg.ChatTemperature != 0.7 {
		t.Fatalf("unexpected temperature: %v", cfg.ChatTemperature)
	}
	if cfg.ChatMaxTokens != 500 {
		t.Fatalf("unexpected max tokens: %d", cfg.ChatMaxTokens)
	}
	if cfg.DefaultClientID != "shodh-demo" {
		t.Fatalf("unexpected default client: %s", cfg.DefaultClientID)
	}
	if cfg.NATSURL != "" {
		t.Fatalf("NATS should be disabled by default, got %q", cfg.NATSURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHAT_TEMPERATURE", "0.2")
	t.Setenv("CHAT_MAX_TOKENS", "64")
	t.Setenv("SESSION_END_TIMEOUT", "5s")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := Load()

	if cfg.ChatTemperature != 0.2 {
		t.Fatalf("unexpected temperature: %v", cfg.ChatTemperature)
	}
	if cfg.ChatMaxTokens != 64 {
		t.Fatalf("unexpected max tokens: %d", cfg.ChatMaxTokens)
	}
	if cfg.SessionEndTimeout != 5*time.Second {
		t.Fatalf("unexpected session end timeout: %v", cfg.SessionEndTimeout)
	}
	if !cfg.TracingEnabled {
		t.Fatal("tracing should be enabled")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CHAT_MAX_TOKENS", "lots")
	t.Setenv("RATE_LIMIT_WINDOW", "soon")

	cfg := Load()

	if cfg.ChatMaxTokens != 500 {
		t.Fatalf("expected fallback max tokens, got %d", cfg.ChatMaxTokens)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Fatalf("expected fallback window, got %v", cfg.RateLimitWindow)
	}
}
