package service

import (
	"context"
	"sync"

	"github.com/shodh-memory/widget-gateway/internal/llm"
	"github.com/shodh-memory/widget-gateway/internal/notify"
)

// fakeLLM records completion requests and returns canned replies.
type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []*llm.CompletionRequest
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.reply, TokensIn: 10, TokensOut: 5}, nil
}

func (f *fakeLLM) CompleteStream(ctx context.Context, req *llm.CompletionRequest, callback llm.StreamCallback) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	reply, err := f.reply, f.err
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for i, r := range []rune(reply) {
		if err := callback(string(r), i); err != nil {
			return nil, err
		}
	}
	return &llm.CompletionResponse{Content: reply}, nil
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeLLM) last() *llm.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []notify.Notification
}

func (f *fakeNotifier) Name() string { return "fake" }

func (f *fakeNotifier) Notify(ctx context.Context, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeSpeech struct {
	transcript string
	audio      string
	err        error
	synthText  string
}

func (f *fakeSpeech) Name() string { return "fake" }

func (f *fakeSpeech) Transcribe(ctx context.Context, audio string) (string, error) {
	return f.transcript, f.err
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text string) (string, error) {
	f.synthText = text
	return f.audio, f.err
}
