package digest

import (
	"strings"
	"testing"

	"github.com/shodh-memory/widget-gateway/internal/model"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m 0s"},
		{125, "2m 5s"},
		{3780, "1h 3m"},
		{-5, "0s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestDeviceClass(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", "mobile"},
		{"android phone", "Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36", "mobile"},
		{"android tablet", "Mozilla/5.0 (Linux; Android 13; SM-X710) Safari/537.36", "tablet"},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)", "tablet"},
		{"desktop", "Mozilla/5.0 (X11; Linux x86_64) Chrome/120.0", "desktop"},
		{"empty", "", "desktop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeviceClass(tt.ua); got != tt.want {
				t.Errorf("DeviceClass() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatLead(t *testing.T) {
	if got := FormatLead(nil); got != AnonymousVisitor {
		t.Fatalf("nil lead: %q", got)
	}
	anon := model.AnonymousLead()
	if got := FormatLead(&anon); got != AnonymousVisitor {
		t.Fatalf("skipped lead: %q", got)
	}

	got := FormatLead(&model.LeadInfo{Name: "Asha", Email: "asha@example.com", Company: "Acme"})
	for _, want := range []string{"Name: Asha", "Email: asha@example.com", "Company: Acme"} {
		if !strings.Contains(got, want) {
			t.Errorf("lead rendering missing %q:\n%s", want, got)
		}
	}
}

func TestFormatBehaviorDefaults(t *testing.T) {
	got := FormatBehavior(&model.Behavior{SecondsOnPage: 125, SecondsInChat: 45, MessageCount: 4})
	for _, want := range []string{"Time on page: 2m 5s", "Time in chat: 45s", "Messages: 4", "Referrer: direct", "Device: desktop", "Form filled: no"} {
		if !strings.Contains(got, want) {
			t.Errorf("behavior rendering missing %q:\n%s", want, got)
		}
	}
}

func TestComposeSubstitutesMissingSummary(t *testing.T) {
	text := Compose(Session{
		ClientName: "Shodh Memory",
		Transcript: []model.Message{
			{Role: model.RoleUser, Content: "hi"},
			{Role: model.RoleAssistant, Content: "hello"},
		},
	})

	if !strings.Contains(text, NoSummary) {
		t.Fatalf("expected %q in digest:\n%s", NoSummary, text)
	}
	if !strings.Contains(text, "Visitor: hi\nAssistant: hello") {
		t.Fatalf("transcript missing or out of order:\n%s", text)
	}
	if strings.Index(text, "Lead") > strings.Index(text, "Summary") {
		t.Fatal("lead section should precede summary")
	}
}
