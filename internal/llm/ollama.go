package llm

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const defaultOllamaModel = "llama3.2"

// OllamaClient talks to a self-hosted Ollama server.
type OllamaClient struct {
	client *api.Client
}

// NewOllamaClient creates a client for the Ollama server at opts.BaseURL.
func NewOllamaClient(opts Options) (*OllamaClient, error) {
	if opts.BaseURL == "" {
		return nil, ErrNotConfigured
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host: %w", err)
	}

	return &OllamaClient{
		client: api.NewClient(base, opts.httpClient()),
	}, nil
}

// Name returns the provider name.
func (c *OllamaClient) Name() string {
	return string(ProviderOllama)
}

// Complete sends a completion request.
func (c *OllamaClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	return c.chat(ctx, req, false, nil)
}

// CompleteStream sends a streaming completion request.
func (c *OllamaClient) CompleteStream(ctx context.Context, req *CompletionRequest, callback StreamCallback) (*CompletionResponse, error) {
	return c.chat(ctx, req, true, callback)
}

func (c *OllamaClient) chat(ctx context.Context, req *CompletionRequest, stream bool, callback StreamCallback) (*CompletionResponse, error) {
	start := time.Now()

	messages := make([]api.Message, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = api.Message{Role: msg.Role, Content: msg.Content}
	}

	model := req.Model
	if model == "" || strings.HasPrefix(model, "llama-3.3") {
		model = defaultOllamaModel
	}

	options := map[string]interface{}{
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	var content strings.Builder
	var final api.ChatResponse
	index := 0

	err := c.client.Chat(ctx, &api.ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   &stream,
		Options:  options,
	}, func(resp api.ChatResponse) error {
		if token := resp.Message.Content; token != "" {
			content.WriteString(token)
			if callback != nil {
				if err := callback(token, index); err != nil {
					return err
				}
			}
			index++
		}
		if resp.Done {
			final = resp
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CompletionResponse{
		Content:    content.String(),
		Model:      model,
		TokensIn:   final.PromptEvalCount,
		TokensOut:  final.EvalCount,
		StopReason: final.DoneReason,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
