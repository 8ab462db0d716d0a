// Package main is the entry point for the widget gateway.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shodh-memory/widget-gateway/internal/archive"
	"github.com/shodh-memory/widget-gateway/internal/clients"
	"github.com/shodh-memory/widget-gateway/internal/config"
	"github.com/shodh-memory/widget-gateway/internal/handler"
	"github.com/shodh-memory/widget-gateway/internal/llm"
	natsclient "github.com/shodh-memory/widget-gateway/internal/nats"
	"github.com/shodh-memory/widget-gateway/internal/notify"
	"github.com/shodh-memory/widget-gateway/internal/service"
	"github.com/shodh-memory/widget-gateway/internal/speech"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
	"github.com/shodh-memory/widget-gateway/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting widget gateway")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "widget-gateway", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Completion provider
	var llmClient llm.Client
	llmClient, err = newCompletionClient(cfg)
	switch {
	case err == nil:
		log.Info("completion provider ready", zap.String("provider", llmClient.Name()))
	case errors.Is(err, llm.ErrNotConfigured):
		log.Warn("completion provider not configured, chat requests will fail",
			zap.String("provider", cfg.LLMProvider),
		)
		llmClient = llm.Unavailable{}
	default:
		log.Fatal("failed to create completion client",
			zap.String("provider", cfg.LLMProvider),
			zap.Error(err),
		)
	}

	// Client personas
	table, err := clients.Load(cfg.ClientsFile)
	if err != nil {
		log.Fatal("failed to load clients", zap.String("file", cfg.ClientsFile), zap.Error(err))
	}

	// Speech provider
	speechProvider := newSpeechProvider(cfg, log)

	// Notification channels
	var (
		notifiers  []notify.Notifier
		readiness  handler.ReadinessChecker
		natsClient *natsclient.Client
	)

	telegram, err := notify.NewTelegram(notify.TelegramConfig{
		BotToken: cfg.TelegramBotToken,
		ChatID:   cfg.TelegramChatID,
		APIURL:   cfg.TelegramAPIURL,
	})
	switch {
	case err == nil:
		notifiers = append(notifiers, telegram)
	case errors.Is(err, notify.ErrNotConfigured):
		log.Warn("telegram not configured, lead and session notifications will not reach a chat")
	default:
		log.Fatal("failed to create telegram notifier", zap.Error(err))
	}

	if cfg.NATSURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		natsClient, err = natsclient.Connect(connectCtx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		cancel()
		if err != nil {
			log.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()

		streamManager := natsclient.NewStreamManager(natsClient)
		if err := streamManager.EnsureStream(ctx); err != nil {
			log.Fatal("failed to ensure stream", zap.Error(err))
		}
		notifiers = append(notifiers, notify.NewNATS(streamManager))
		readiness = natsClient
	}
	notifier := notify.NewMulti(log, notifiers...)
	log.Info("notification channels", zap.Strings("channels", notifier.Channels()))

	// Digest archive
	store, err := newArchive(cfg)
	if err != nil {
		log.Fatal("failed to create digest archive", zap.Error(err))
	}
	defer store.Close()

	// Initialize services
	chatSvc := service.NewChatService(llmClient, table, service.ChatConfig{
		Model:           cfg.ChatModel,
		Temperature:     cfg.ChatTemperature,
		MaxTokens:       cfg.ChatMaxTokens,
		DefaultClientID: cfg.DefaultClientID,
	}, log)
	sessionSvc := service.NewSessionService(llmClient, table, notifier, store, service.SessionConfig{
		Model:           cfg.ChatModel,
		MaxTokens:       cfg.SummaryMaxTokens,
		Timeout:         cfg.SessionEndTimeout,
		DefaultClientID: cfg.DefaultClientID,
	}, log)
	leadSvc := service.NewLeadService(table, notifier, cfg.DefaultClientID, cfg.SessionEndTimeout, log)
	voiceSvc := service.NewVoiceService(speechProvider, llmClient, service.VoiceConfig{
		Model:       cfg.ChatModel,
		Temperature: cfg.ChatTemperature,
		MaxTokens:   cfg.VoiceMaxTokens,
	}, log)

	// Initialize handlers
	handlers := handler.Handlers{
		Health: handler.NewHealthHandler(readiness),
		Chat:   handler.NewChatHandler(chatSvc, sessionSvc, log),
		Stream: handler.NewStreamHandler(chatSvc, log),
		Voice:  handler.NewVoiceHandler(voiceSvc, log),
		Lead:   handler.NewLeadHandler(leadSvc, log),
		Widget: handler.NewWidgetHandler(cfg.PublicAPIURL, cfg.DefaultClientID, log),
		Admin:  handler.NewAdminHandler(store, table, log),
	}
	if cfg.AdminJWTSecret == "" {
		log.Info("admin API disabled, ADMIN_JWT_SECRET not set")
	}

	router := handler.NewRouter(handlers, handler.RouterConfig{
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		AdminJWTSecret:    cfg.AdminJWTSecret,
	}, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func newCompletionClient(cfg *config.Config) (llm.Client, error) {
	provider := llm.Provider(cfg.LLMProvider)
	opts := llm.Options{Timeout: cfg.ProviderTimeout}

	switch provider {
	case llm.ProviderGroq:
		opts.APIKey = cfg.GroqAPIKey
		opts.BaseURL = cfg.GroqBaseURL
	case llm.ProviderOpenAI:
		opts.APIKey = cfg.OpenAIAPIKey
	case llm.ProviderAnthropic:
		opts.APIKey = cfg.AnthropicAPIKey
	case llm.ProviderOllama:
		opts.BaseURL = cfg.OllamaHost
	}

	return llm.NewClient(provider, opts)
}

func newSpeechProvider(cfg *config.Config, log *logger.Logger) speech.Provider {
	var (
		provider speech.Provider
		err      error
	)

	switch cfg.SpeechProvider {
	case "openai":
		provider, err = speech.NewOpenAIProvider(speech.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Voice:   cfg.OpenAISpeechVoice,
			Timeout: cfg.ProviderTimeout,
		})
	default:
		provider, err = speech.NewBhashiniProvider(speech.BhashiniConfig{
			URL:          cfg.BhashiniAPIURL,
			APIKey:       cfg.BhashiniAPIKey,
			UserID:       cfg.BhashiniUserID,
			ASRServiceID: cfg.BhashiniASRServiceID,
			TTSServiceID: cfg.BhashiniTTSServiceID,
			Language:     cfg.BhashiniLanguage,
			Timeout:      cfg.ProviderTimeout,
		})
	}
	if err != nil {
		log.Warn("speech provider unavailable, voice requests will fail",
			zap.String("provider", cfg.SpeechProvider),
			zap.Error(err),
		)
		return speech.Unavailable{}
	}

	log.Info("speech provider ready", zap.String("provider", provider.Name()))
	return provider
}

func newArchive(cfg *config.Config) (archive.Store, error) {
	if cfg.RedisURL == "" {
		return archive.NewStore(archive.StoreTypeMemory, archive.WithCapacity(cfg.ArchiveCap))
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return archive.NewStore(archive.StoreTypeRedis,
		archive.WithRedisClient(redis.NewClient(opts)),
		archive.WithTTL(cfg.ArchiveTTL),
		archive.WithCapacity(cfg.ArchiveCap),
	)
}
