package widget

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shodh-memory/widget-gateway/internal/model"
)

func TestHTTPTransportChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req model.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Message != "hello" || len(req.History) != 1 {
			t.Errorf("unexpected body: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.ChatResponse{Response: "hi there"})
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL + "/")
	reply, err := tr.Chat(context.Background(), &model.ChatRequest{
		Message: "hello",
		History: []model.Message{{Role: model.RoleUser, Content: "earlier"}},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "hi there" {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestHTTPTransportChatError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: "Failed to process chat request"})
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL)
	_, err := tr.Chat(context.Background(), &model.ChatRequest{Message: "hello"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "Failed to process chat request") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHTTPTransportBackgroundDelivery(t *testing.T) {
	var mu sync.Mutex
	paths := map[string]int{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths[r.URL.Path]++
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(model.AckResponse{Success: true})
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, WithBackgroundTimeout(time.Second))
	tr.NotifyLead(&model.LeadRequest{LeadInfo: &model.LeadInfo{Name: "Ada", Email: "ada@example.com"}})
	tr.Beacon(&model.ChatRequest{SessionEnd: true, History: []model.Message{{Role: model.RoleUser, Content: "hi"}}})

	if !tr.Flush(2 * time.Second) {
		t.Fatal("background deliveries did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	if paths["/api/lead"] != 1 || paths["/api/chat"] != 1 {
		t.Fatalf("unexpected deliveries: %v", paths)
	}
}

func TestControllerOverHTTPTransport(t *testing.T) {
	var mu sync.Mutex
	var ended *model.ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req model.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.SessionEnd {
			mu.Lock()
			ended = &req
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(model.AckResponse{Success: true})
			return
		}
		_ = json.NewEncoder(w).Encode(model.ChatResponse{Response: "echo: " + req.Message})
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL)
	c := New(tr, Options{ClientID: "shodh-demo"})
	c.Open()
	if err := c.SkipLead(); err != nil {
		t.Fatalf("SkipLead: %v", err)
	}
	if err := c.Send(context.Background(), "ping"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	<-c.Settled()
	c.Close()

	if !tr.Flush(2 * time.Second) {
		t.Fatal("beacon did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	if ended == nil {
		t.Fatal("expected an end-of-session payload")
	}
	if len(ended.History) != 2 || ended.History[1].Content != "echo: ping" {
		t.Fatalf("unexpected transcript: %+v", ended.History)
	}
	if ended.LeadInfo == nil || ended.LeadInfo.Name != model.AnonymousName {
		t.Fatalf("unexpected lead: %+v", ended.LeadInfo)
	}
}
