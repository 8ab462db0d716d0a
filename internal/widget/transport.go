package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
)

const defaultBackgroundTimeout = 10 * time.Second

// HTTPTransport talks to the gateway's widget endpoints.
type HTTPTransport struct {
	baseURL           string
	client            *http.Client
	backgroundTimeout time.Duration
	logger            *logger.Logger
	wg                sync.WaitGroup
}

// TransportOption configures an HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		t.client = c
	}
}

// WithBackgroundTimeout bounds each lead or beacon delivery.
func WithBackgroundTimeout(d time.Duration) TransportOption {
	return func(t *HTTPTransport) {
		t.backgroundTimeout = d
	}
}

// WithLogger sets the logger used for background delivery failures.
func WithLogger(l *logger.Logger) TransportOption {
	return func(t *HTTPTransport) {
		t.logger = l
	}
}

// NewHTTPTransport creates a transport for the gateway at baseURL.
func NewHTTPTransport(baseURL string, opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		baseURL:           strings.TrimRight(baseURL, "/"),
		client:            &http.Client{Timeout: 60 * time.Second},
		backgroundTimeout: defaultBackgroundTimeout,
		logger:            logger.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Chat posts a message to /api/chat and returns the reply text.
func (t *HTTPTransport) Chat(ctx context.Context, req *model.ChatRequest) (string, error) {
	var resp model.ChatResponse
	if err := t.post(ctx, "/api/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// NotifyLead posts the lead to /api/lead in the background.
func (t *HTTPTransport) NotifyLead(req *model.LeadRequest) {
	t.background("/api/lead", req)
}

// Beacon posts the end-of-session payload to /api/chat in the background.
// Delivery is not tied to any caller context so it survives page teardown.
func (t *HTTPTransport) Beacon(req *model.ChatRequest) {
	t.background("/api/chat", req)
}

// Flush waits up to timeout for background deliveries and reports whether
// they all finished.
func (t *HTTPTransport) Flush(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (t *HTTPTransport) background(path string, body any) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), t.backgroundTimeout)
		defer cancel()

		if err := t.post(ctx, path, body, nil); err != nil {
			t.logger.Warn("Background delivery failed",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}()
}

func (t *HTTPTransport) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr model.ErrorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("post %s: status %d: %s", path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("post %s: status %d", path, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
