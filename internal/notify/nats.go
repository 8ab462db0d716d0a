package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shodh-memory/widget-gateway/internal/model"
)

// EventPublisher publishes widget events to the event stream.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *model.WidgetEvent) (uint64, error)
}

// NATS publishes notifications as widget events on JetStream.
type NATS struct {
	publisher EventPublisher
}

// NewNATS creates a NATS notifier.
func NewNATS(publisher EventPublisher) *NATS {
	return &NATS{publisher: publisher}
}

// Name implements Notifier.
func (n *NATS) Name() string {
	return "nats"
}

// Notify implements Notifier.
func (n *NATS) Notify(ctx context.Context, note Notification) error {
	_, err := n.publisher.PublishEvent(ctx, &model.WidgetEvent{
		ID:        uuid.New().String(),
		ClientID:  note.ClientID,
		Type:      note.Type,
		Text:      note.Text,
		Metadata:  note.Metadata,
		CreatedAt: time.Now().UTC(),
	})
	return err
}
