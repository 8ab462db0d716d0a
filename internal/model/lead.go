package model

import "strings"

// AnonymousName is the lead name recorded when the visitor skips the form.
const AnonymousName = "Anonymous"

// LeadInfo is the contact information captured before chatting.
type LeadInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
}

// AnonymousLead returns the lead recorded for a skipped form.
func AnonymousLead() LeadInfo {
	return LeadInfo{Name: AnonymousName}
}

// IsAnonymous reports whether no usable contact details were captured.
func (l *LeadInfo) IsAnonymous() bool {
	if l == nil {
		return true
	}
	name := strings.TrimSpace(l.Name)
	return (name == "" || name == AnonymousName) && strings.TrimSpace(l.Email) == ""
}

// Complete reports whether name and email are both present.
func (l *LeadInfo) Complete() bool {
	return l != nil && strings.TrimSpace(l.Name) != "" && strings.TrimSpace(l.Email) != ""
}

// Behavior is the telemetry snapshot sent with the end-of-session payload.
type Behavior struct {
	PagePath      string `json:"pagePath,omitempty"`
	SecondsOnPage int    `json:"secondsOnPage"`
	SecondsInChat int    `json:"secondsInChat"`
	MessageCount  int    `json:"messageCount"`
	FormFilled    bool   `json:"formFilled"`
	UserAgent     string `json:"userAgent,omitempty"`
	Referrer      string `json:"referrer,omitempty"`
}

// LeadRequest is the body of POST /api/lead.
type LeadRequest struct {
	ClientID string    `json:"clientId,omitempty"`
	LeadInfo *LeadInfo `json:"leadInfo"`
	PagePath string    `json:"pagePath,omitempty"`
}
