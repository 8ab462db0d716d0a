// Package notify delivers lead and session digests to notification channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
	"github.com/shodh-memory/widget-gateway/pkg/metrics"
)

// ErrNotConfigured is returned when no channel has credentials.
var ErrNotConfigured = errors.New("notification channel not configured")

// Notification is one message for the site owner.
type Notification struct {
	ClientID string
	Type     model.EventType
	Text     string
	Metadata map[string]any
}

// Notifier delivers notifications to one channel.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
	Name() string
}

// Multi fans a notification out to every configured channel.
type Multi struct {
	notifiers []Notifier
	logger    *logger.Logger
}

// NewMulti creates a fan-out notifier. Nil entries are ignored.
func NewMulti(log *logger.Logger, notifiers ...Notifier) *Multi {
	m := &Multi{logger: log}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Name implements Notifier.
func (m *Multi) Name() string {
	return "multi"
}

// Channels returns the names of the configured channels.
func (m *Multi) Channels() []string {
	names := make([]string, 0, len(m.notifiers))
	for _, n := range m.notifiers {
		names = append(names, n.Name())
	}
	return names
}

// Notify delivers n to every channel. A failing channel does not stop the others.
func (m *Multi) Notify(ctx context.Context, n Notification) error {
	if len(m.notifiers) == 0 {
		return ErrNotConfigured
	}

	var errs []error
	for _, notifier := range m.notifiers {
		start := time.Now()
		err := notifier.Notify(ctx, n)
		metrics.RecordNotification(notifier.Name(), err)
		if err != nil {
			m.logger.Error("notification failed",
				zap.String("channel", notifier.Name()),
				zap.String("client_id", n.ClientID),
				zap.String("type", string(n.Type)),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
			continue
		}
		m.logger.Debug("notification sent",
			zap.String("channel", notifier.Name()),
			zap.String("type", string(n.Type)),
			zap.Duration("duration", time.Since(start)),
		)
	}

	return errors.Join(errs...)
}
