// Package model defines the wire and domain types shared by the widget gateway.
package model

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// IsConversational reports whether the role may appear in visitor-supplied history.
func (r Role) IsConversational() bool {
	return r == RoleUser || r == RoleAssistant
}

// ChatRequest is the body of POST /api/chat and POST /api/chat/stream.
// When SessionEnd is set the request carries the final transcript instead of a new message.
type ChatRequest struct {
	Message    string    `json:"message"`
	ClientID   string    `json:"clientId,omitempty"`
	History    []Message `json:"history,omitempty"`
	LeadInfo   *LeadInfo `json:"leadInfo,omitempty"`
	SessionEnd bool      `json:"sessionEnd,omitempty"`
	Behavior   *Behavior `json:"behavior,omitempty"`
	SessionID  string    `json:"sessionId,omitempty"`
}

// ChatResponse carries a generated reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// AckResponse acknowledges fire-and-forget requests.
type AckResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TokenEvent represents a streaming token event.
type TokenEvent struct {
	Token string `json:"token"`
	Index int    `json:"index"`
}

// DoneEvent closes a reply stream with the full text.
type DoneEvent struct {
	Response string `json:"response"`
}

// ErrorEvent represents a stream error event.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
