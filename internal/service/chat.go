// Package service implements the chat, session, lead and voice operations behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/shodh-memory/widget-gateway/internal/clients"
	"github.com/shodh-memory/widget-gateway/internal/llm"
	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
	"github.com/shodh-memory/widget-gateway/pkg/metrics"
	"github.com/shodh-memory/widget-gateway/pkg/tracing"
)

const (
	// MaxHistory is the number of prior turns forwarded to the provider.
	MaxHistory = 6

	// FallbackReply is returned when the provider produced no text.
	FallbackReply = "Sorry, I could not generate a response."
)

// ErrEmptyMessage is returned when the visitor message is blank.
var ErrEmptyMessage = errors.New("message is required")

// ChatConfig holds the sampling parameters for widget replies.
type ChatConfig struct {
	Model           string
	Temperature     float64
	MaxTokens       int
	DefaultClientID string
}

// ReplyRequest is one visitor message with its rolling history.
type ReplyRequest struct {
	Message  string
	ClientID string
	History  []model.Message
}

// ChatService generates widget replies. It holds no per-visitor state.
type ChatService struct {
	llmClient llm.Client
	clients   clients.Resolver
	cfg       ChatConfig
	logger    *logger.Logger
}

// NewChatService creates a new chat service.
func NewChatService(llmClient llm.Client, resolver clients.Resolver, cfg ChatConfig, log *logger.Logger) *ChatService {
	return &ChatService{
		llmClient: llmClient,
		clients:   resolver,
		cfg:       cfg,
		logger:    log,
	}
}

// ClientID returns id, or the default client when id is blank.
func (s *ChatService) ClientID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return s.cfg.DefaultClientID
}

// GenerateReply returns the assistant reply to req.Message.
func (s *ChatService) GenerateReply(ctx context.Context, req ReplyRequest) (string, error) {
	ctx, span := tracing.Start(ctx, "chat.generate_reply")
	defer span.End()

	clientID := s.ClientID(req.ClientID)
	span.SetAttributes(attribute.String("widget.client_id", clientID))

	completion, err := s.buildRequest(clientID, req)
	if err != nil {
		return "", err
	}

	resp, err := complete(ctx, s.llmClient, "reply", completion)
	if err != nil {
		tracing.Fail(span, err)
		metrics.ChatRepliesTotal.WithLabelValues(clientID, "error").Inc()
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	metrics.ChatRepliesTotal.WithLabelValues(clientID, "success").Inc()
	return replyText(resp.Content), nil
}

// StreamReply generates the reply token by token, calling onToken for each
// fragment, and returns the full text.
func (s *ChatService) StreamReply(ctx context.Context, req ReplyRequest, onToken llm.StreamCallback) (string, error) {
	ctx, span := tracing.Start(ctx, "chat.stream_reply")
	defer span.End()

	clientID := s.ClientID(req.ClientID)
	span.SetAttributes(attribute.String("widget.client_id", clientID))

	completion, err := s.buildRequest(clientID, req)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := s.llmClient.CompleteStream(ctx, completion, onToken)
	if err != nil {
		metrics.RecordCompletion(s.llmClient.Name(), "stream", "error", time.Since(start).Seconds(), 0, 0)
		metrics.ChatRepliesTotal.WithLabelValues(clientID, "error").Inc()
		tracing.Fail(span, err)
		return "", fmt.Errorf("failed to stream reply: %w", err)
	}
	metrics.RecordCompletion(s.llmClient.Name(), "stream", "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)
	metrics.ChatRepliesTotal.WithLabelValues(clientID, "success").Inc()

	return replyText(resp.Content), nil
}

func (s *ChatService) buildRequest(clientID string, req ReplyRequest) (*llm.CompletionRequest, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	history := RecentHistory(req.History, MaxHistory)
	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: string(model.RoleSystem), Content: s.clients.ResolveSystemPrompt(clientID)})
	messages = append(messages, toChatMessages(history)...)
	messages = append(messages, llm.ChatMessage{Role: string(model.RoleUser), Content: message})

	s.logger.Debug("building completion request",
		zap.String("client_id", clientID),
		zap.Int("history", len(history)),
	)

	return &llm.CompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}, nil
}

// RecentHistory drops entries that are not user or assistant turns or have no
// content, then keeps the most recent n.
func RecentHistory(history []model.Message, n int) []model.Message {
	kept := make([]model.Message, 0, len(history))
	for _, m := range history {
		if !m.Role.IsConversational() || strings.TrimSpace(m.Content) == "" {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return kept
}

func toChatMessages(history []model.Message) []llm.ChatMessage {
	out := make([]llm.ChatMessage, len(history))
	for i, m := range history {
		out[i] = llm.ChatMessage{Role: string(m.Role), Content: m.Content}
	}
	return out
}

func replyText(content string) string {
	if strings.TrimSpace(content) == "" {
		return FallbackReply
	}
	return content
}

// complete calls the provider and records latency and token metrics.
func complete(ctx context.Context, client llm.Client, purpose string, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	start := time.Now()
	resp, err := client.Complete(ctx, req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordCompletion(client.Name(), purpose, "error", elapsed, 0, 0)
		return nil, err
	}
	metrics.RecordCompletion(client.Name(), purpose, "success", elapsed, resp.TokensIn, resp.TokensOut)
	return resp, nil
}
