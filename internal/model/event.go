package model

import (
	"time"
)

// EventType represents the type of widget event published to the event stream.
type EventType string

const (
	EventTypeLead       EventType = "lead"
	EventTypeSessionEnd EventType = "session_end"
)

// WidgetEvent is a notification published to the event stream.
type WidgetEvent struct {
	ID        string         `json:"id"`
	ClientID  string         `json:"client_id"`
	Type      EventType      `json:"type"`
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// SessionDigest is the record produced when a chat session ends.
type SessionDigest struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id,omitempty"`
	ClientID   string    `json:"client_id"`
	ClientName string    `json:"client_name"`
	Lead       *LeadInfo `json:"lead,omitempty"`
	Behavior   *Behavior `json:"behavior,omitempty"`
	Summary    string    `json:"summary"`
	Transcript []Message `json:"transcript"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
