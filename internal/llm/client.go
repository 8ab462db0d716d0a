// Package llm provides completion provider interfaces and implementations.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when a provider is selected without credentials.
var ErrNotConfigured = errors.New("completion provider not configured")

// StreamCallback is called for each token during streaming.
type StreamCallback func(token string, index int) error

// CompletionRequest represents a completion request. Messages are ordered and
// may start with a system message.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatMessage represents a chat message for LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for completion providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// CompleteStream sends a streaming completion request.
	CompleteStream(ctx context.Context, req *CompletionRequest, callback StreamCallback) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// Unavailable is the client used when no completion provider is configured.
// Every call fails with ErrNotConfigured.
type Unavailable struct{}

// Complete implements Client.
func (Unavailable) Complete(context.Context, *CompletionRequest) (*CompletionResponse, error) {
	return nil, ErrNotConfigured
}

// CompleteStream implements Client.
func (Unavailable) CompleteStream(context.Context, *CompletionRequest, StreamCallback) (*CompletionResponse, error) {
	return nil, ErrNotConfigured
}

// Name implements Client.
func (Unavailable) Name() string {
	return "unavailable"
}

// Provider is the type of completion provider.
type Provider string

const (
	ProviderGroq      Provider = "groq"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// Options carries provider credentials and transport settings.
type Options struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func (o Options) httpClient() *http.Client {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// NewClient creates a completion client for provider.
func NewClient(provider Provider, opts Options) (Client, error) {
	switch provider {
	case ProviderGroq:
		return NewOpenAICompatibleClient(string(ProviderGroq), opts)
	case ProviderOpenAI:
		return NewOpenAICompatibleClient(string(ProviderOpenAI), opts)
	case ProviderAnthropic:
		return NewAnthropicClient(opts)
	case ProviderOllama:
		return NewOllamaClient(opts)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", provider)
	}
}

// splitSystem separates leading system messages from the conversation, for
// providers that take the system prompt out of band.
func splitSystem(messages []ChatMessage) (string, []ChatMessage) {
	var system string
	rest := make([]ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == "system" {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
			continue
		}
		rest = append(rest, msg)
	}
	return system, rest
}
