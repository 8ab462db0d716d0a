// Package config provides environment configuration for the widget gateway.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	PublicAPIURL       string

	// Completion provider
	LLMProvider     string
	GroqAPIKey      string
	GroqBaseURL     string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string
	ProviderTimeout time.Duration

	// Sampling
	ChatModel        string
	ChatTemperature  float64
	ChatMaxTokens    int
	VoiceMaxTokens   int
	SummaryMaxTokens int

	// Widget clients
	DefaultClientID string
	ClientsFile     string

	// Speech provider
	SpeechProvider       string
	BhashiniAPIURL       string
	BhashiniAPIKey       string
	BhashiniUserID       string
	BhashiniASRServiceID string
	BhashiniTTSServiceID string
	BhashiniLanguage     string
	OpenAISpeechVoice    string

	// Notifications
	TelegramBotToken  string
	TelegramChatID    string
	TelegramAPIURL    string
	SessionEndTimeout time.Duration

	// NATS settings (empty URL disables the event channel)
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// Digest archive
	RedisURL   string
	ArchiveTTL time.Duration
	ArchiveCap int

	// Admin API (empty secret disables it)
	AdminJWTSecret string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; real env vars win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),
		PublicAPIURL:       getEnv("PUBLIC_API_URL", "https://www.shodh-memory.com"),

		// Completion provider
		LLMProvider:     getEnv("LLM_PROVIDER", "groq"),
		GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:     getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		ProviderTimeout: getDurationEnv("PROVIDER_TIMEOUT", 60*time.Second),

		// Sampling
		ChatModel:        getEnv("CHAT_MODEL", "llama-3.3-70b-versatile"),
		ChatTemperature:  getFloatEnv("CHAT_TEMPERATURE", 0.7),
		ChatMaxTokens:    getIntEnv("CHAT_MAX_TOKENS", 500),
		VoiceMaxTokens:   getIntEnv("VOICE_MAX_TOKENS", 150),
		SummaryMaxTokens: getIntEnv("SUMMARY_MAX_TOKENS", 200),

		// Widget clients
		DefaultClientID: getEnv("DEFAULT_CLIENT_ID", "shodh-demo"),
		ClientsFile:     getEnv("CLIENTS_FILE", ""),

		// Speech
		SpeechProvider:       getEnv("SPEECH_PROVIDER", "bhashini"),
		BhashiniAPIURL:       getEnv("BHASHINI_API_URL", "https://dhruva-api.bhashini.gov.in/services/inference/pipeline"),
		BhashiniAPIKey:       getEnv("BHASHINI_API_KEY", ""),
		BhashiniUserID:       getEnv("BHASHINI_USER_ID", ""),
		BhashiniASRServiceID: getEnv("BHASHINI_ASR_SERVICE_ID", "ai4bharat/conformer-hi-gpu--t4"),
		BhashiniTTSServiceID: getEnv("BHASHINI_TTS_SERVICE_ID", "ai4bharat/indic-tts-coqui-hindi-gpu--t4"),
		BhashiniLanguage:     getEnv("BHASHINI_LANGUAGE", "hi"),
		OpenAISpeechVoice:    getEnv("OPENAI_SPEECH_VOICE", "alloy"),

		// Notifications
		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:    getEnv("TELEGRAM_CHAT_ID", ""),
		TelegramAPIURL:    getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		SessionEndTimeout: getDurationEnv("SESSION_END_TIMEOUT", 45*time.Second),

		// NATS
		NATSURL:      getEnv("NATS_URL", ""),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// Archive
		RedisURL:   getEnv("REDIS_URL", ""),
		ArchiveTTL: getDurationEnv("ARCHIVE_TTL", 7*24*time.Hour),
		ArchiveCap: getIntEnv("ARCHIVE_CAP", 500),

		// Admin
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
