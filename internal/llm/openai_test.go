package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type capturedRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

func TestOpenAICompatibleComplete(t *testing.T) {
	var got capturedRequest
	var path, auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "llama-3.3-70b-versatile",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello there"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	client, err := NewOpenAICompatibleClient("groq", Options{APIKey: "test-key", BaseURL: server.URL + "/openai/v1/"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	resp, err := client.Complete(context.Background(), &CompletionRequest{
		Model: "llama-3.3-70b-versatile",
		Messages: []ChatMessage{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hello"},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if path != "/openai/v1/chat/completions" {
		t.Fatalf("unexpected path: %s", path)
	}
	if auth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %s", auth)
	}
	if got.Model != "llama-3.3-70b-versatile" || got.MaxTokens != 500 {
		t.Fatalf("unexpected request: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "hello" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if resp.Content != "Hello there" || resp.TokensIn != 12 || resp.TokensOut != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if client.Name() != "groq" {
		t.Fatalf("unexpected name: %s", client.Name())
	}
}

func TestOpenAICompatibleCompleteProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer server.Close()

	client, err := NewOpenAICompatibleClient("groq", Options{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.Complete(context.Background(), &CompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	}); err == nil {
		t.Fatal("expected provider error")
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	for _, provider := range []Provider{ProviderGroq, ProviderOpenAI, ProviderAnthropic, ProviderOllama} {
		if _, err := NewClient(provider, Options{}); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("%s: expected ErrNotConfigured, got %v", provider, err)
		}
	}
	if _, err := NewClient("mystery", Options{APIKey: "x"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]ChatMessage{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "a1"},
		{Role: "user", Content: "q2"},
	})

	if system != "persona" {
		t.Fatalf("unexpected system: %q", system)
	}
	if len(rest) != 3 || rest[0].Content != "q1" || rest[2].Content != "q2" {
		t.Fatalf("unexpected rest: %+v", rest)
	}
}
