package nats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/shodh-memory/widget-gateway/pkg/logger"
)

func applyOptions(t *testing.T, opts []nats.Option) nats.Options {
	t.Helper()
	o := nats.GetDefaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			t.Fatalf("apply option: %v", err)
		}
	}
	return o
}

func TestConnectOptions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	o := applyOptions(t, connectOptions(ctx, Config{Token: "s3cret"}, logger.NewNop()))

	if o.Name != defaultConnectionName {
		t.Fatalf("unexpected name %q", o.Name)
	}
	if o.MaxReconnect != -1 {
		t.Fatalf("expected unlimited reconnects, got %d", o.MaxReconnect)
	}
	if o.Token != "s3cret" {
		t.Fatalf("unexpected token %q", o.Token)
	}
	if o.Timeout <= 0 || o.Timeout > 5*time.Second {
		t.Fatalf("dial timeout should follow the context deadline, got %v", o.Timeout)
	}
	if o.Secure {
		t.Fatal("TLS should be off without certificates")
	}
}

func TestConnectOptionsName(t *testing.T) {
	o := applyOptions(t, connectOptions(context.Background(), Config{Name: "edge-1"}, logger.NewNop()))
	if o.Name != "edge-1" {
		t.Fatalf("unexpected name %q", o.Name)
	}
}

func TestConnectRejectsMissingCA(t *testing.T) {
	cfg := Config{
		URL:    "nats://127.0.0.1:1",
		CAFile: filepath.Join(t.TempDir(), "missing-ca.pem"),
	}

	if _, err := Connect(context.Background(), cfg, logger.NewNop()); err == nil {
		t.Fatal("expected an error for an unreadable CA file")
	}
}

func TestNilClientStatus(t *testing.T) {
	var c *Client
	if c.IsConnected() {
		t.Fatal("nil client cannot be connected")
	}
	if c.Status() != "CLOSED" {
		t.Fatalf("unexpected status %q", c.Status())
	}
}
