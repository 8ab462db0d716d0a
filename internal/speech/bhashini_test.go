package speech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestBhashini(t *testing.T, handler http.HandlerFunc) *BhashiniProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewBhashiniProvider(BhashiniConfig{
		URL:          server.URL,
		APIKey:       "bhashini-key",
		ASRServiceID: "asr-service",
		TTSServiceID: "tts-service",
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestBhashiniTranscribe(t *testing.T) {
	var got pipelineRequest
	p := newTestBhashini(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "bhashini-key" {
			t.Errorf("missing authorization header")
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"pipelineResponse":[{"output":[{"source":"namaste"}]}]}`))
	})

	text, err := p.Transcribe(context.Background(), "UklGRg==")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "namaste" {
		t.Fatalf("unexpected text: %q", text)
	}
	if len(got.PipelineTasks) != 1 || got.PipelineTasks[0].TaskType != "asr" {
		t.Fatalf("unexpected tasks: %+v", got.PipelineTasks)
	}
	if got.PipelineTasks[0].Config.ServiceID != "asr-service" || got.PipelineTasks[0].Config.Language.SourceLanguage != "hi" {
		t.Fatalf("unexpected config: %+v", got.PipelineTasks[0].Config)
	}
	if len(got.InputData.Audio) != 1 || got.InputData.Audio[0].AudioContent != "UklGRg==" {
		t.Fatalf("unexpected input: %+v", got.InputData)
	}
}

func TestBhashiniSynthesize(t *testing.T) {
	p := newTestBhashini(t, func(w http.ResponseWriter, r *http.Request) {
		var req pipelineRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.PipelineTasks[0].TaskType != "tts" || req.InputData.Input[0].Source != "hello" {
			t.Errorf("unexpected request: %+v", req)
		}
		w.Write([]byte(`{"pipelineResponse":[{"audio":[{"audioContent":"AAAA"}]}]}`))
	})

	audio, err := p.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if audio != "AAAA" {
		t.Fatalf("unexpected audio: %q", audio)
	}
}

func TestBhashiniErrorIncludesBody(t *testing.T) {
	p := newTestBhashini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("quota exhausted"))
	})

	_, err := p.Transcribe(context.Background(), "UklGRg==")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "quota exhausted") {
		t.Fatalf("error should carry provider body for server logs: %v", err)
	}
}

func TestBhashiniRequiresKey(t *testing.T) {
	if _, err := NewBhashiniProvider(BhashiniConfig{URL: "http://x"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestUnavailable(t *testing.T) {
	var p Provider = Unavailable{}
	if _, err := p.Transcribe(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
