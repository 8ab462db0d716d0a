// Package digest renders session digests and lead notifications as plain text.
package digest

import (
	"fmt"
	"strings"

	"github.com/shodh-memory/widget-gateway/internal/model"
)

const (
	// NoSummary replaces an empty or failed summary.
	NoSummary = "No summary available"

	// AnonymousVisitor is rendered when the visitor skipped the form.
	AnonymousVisitor = "Anonymous visitor"
)

// FormatDuration renders seconds as 45s, 2m 5s or 1h 3m.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	}
}

// DeviceClass infers tablet, mobile or desktop from a user agent.
func DeviceClass(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"),
		strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		return "tablet"
	case strings.Contains(ua, "mobi"), strings.Contains(ua, "iphone"), strings.Contains(ua, "android"):
		return "mobile"
	default:
		return "desktop"
	}
}

// FormatLead renders the captured contact details.
func FormatLead(lead *model.LeadInfo) string {
	if lead.IsAnonymous() {
		return AnonymousVisitor
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", valueOr(lead.Name, "-"))
	fmt.Fprintf(&b, "Email: %s", valueOr(lead.Email, "-"))
	if c := strings.TrimSpace(lead.Company); c != "" {
		fmt.Fprintf(&b, "\nCompany: %s", c)
	}
	return b.String()
}

// FormatBehavior renders the telemetry snapshot.
func FormatBehavior(bh *model.Behavior) string {
	if bh == nil {
		return "No behavior data"
	}

	formFilled := "no"
	if bh.FormFilled {
		formFilled = "yes"
	}

	lines := []string{
		"Page: " + valueOr(bh.PagePath, "/"),
		"Time on page: " + FormatDuration(bh.SecondsOnPage),
		"Time in chat: " + FormatDuration(bh.SecondsInChat),
		fmt.Sprintf("Messages: %d", bh.MessageCount),
		"Form filled: " + formFilled,
		"Device: " + DeviceClass(bh.UserAgent),
		"Referrer: " + valueOr(bh.Referrer, "direct"),
	}
	return strings.Join(lines, "\n")
}

// FormatTranscript renders messages one per line, labelled by speaker.
func FormatTranscript(messages []model.Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(speaker(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

// Session is everything rendered into an end-of-session digest.
type Session struct {
	ClientName string
	Lead       *model.LeadInfo
	Behavior   *model.Behavior
	Summary    string
	Transcript []model.Message
}

// Compose renders the full digest message.
func Compose(s Session) string {
	summary := strings.TrimSpace(s.Summary)
	if summary == "" {
		summary = NoSummary
	}

	sections := []string{
		"Chat session ended: " + valueOr(s.ClientName, "unknown client"),
		"Lead\n" + FormatLead(s.Lead),
		"Behavior\n" + FormatBehavior(s.Behavior),
		"Summary\n" + summary,
		"Transcript\n" + FormatTranscript(s.Transcript),
	}
	return strings.Join(sections, "\n\n")
}

// ComposeLead renders the new-lead notification.
func ComposeLead(clientName string, lead *model.LeadInfo, pagePath string) string {
	text := "New lead: " + valueOr(clientName, "unknown client") + "\n\n" + FormatLead(lead)
	if pagePath != "" {
		text += "\nPage: " + pagePath
	}
	return text
}

func speaker(role model.Role) string {
	switch role {
	case model.RoleUser:
		return "Visitor"
	case model.RoleAssistant:
		return "Assistant"
	default:
		return string(role)
	}
}

func valueOr(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
