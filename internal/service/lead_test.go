package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shodh-memory/widget-gateway/internal/clients"
	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
)

func TestNotifyLead(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewLeadService(clients.NewTable(clients.Builtin()...), notifier, "shodh-demo", time.Second, logger.NewNop())

	err := svc.NotifyLead(context.Background(), &model.LeadRequest{
		ClientID: "msi-laptop",
		LeadInfo: &model.LeadInfo{Name: "Ravi", Email: "ravi@example.com"},
		PagePath: "/pricing",
	})
	if err != nil {
		t.Fatalf("notify lead: %v", err)
	}
	if notifier.count() != 1 {
		t.Fatalf("expected one notification, got %d", notifier.count())
	}
	n := notifier.sent[0]
	if n.Type != model.EventTypeLead || !strings.Contains(n.Text, "Ravi") || !strings.Contains(n.Text, "/pricing") {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if !strings.Contains(n.Text, "MSI Laptop Service Center") {
		t.Fatalf("lead should name the client, got %q", n.Text)
	}
}

func TestNotifyLeadValidation(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewLeadService(clients.NewTable(), notifier, "shodh-demo", time.Second, logger.NewNop())

	for _, req := range []*model.LeadRequest{
		nil,
		{},
		{LeadInfo: &model.LeadInfo{Name: "Ravi"}},
		{LeadInfo: &model.LeadInfo{Email: "ravi@example.com"}},
	} {
		if err := svc.NotifyLead(context.Background(), req); !errors.Is(err, ErrInvalidLead) {
			t.Fatalf("expected ErrInvalidLead for %+v, got %v", req, err)
		}
	}
	if notifier.count() != 0 {
		t.Fatal("invalid leads must not be forwarded")
	}
}

func TestNotifyLeadDeliveryFailureIsNotAnError(t *testing.T) {
	svc := NewLeadService(clients.NewTable(), &fakeNotifier{err: errors.New("telegram down")}, "shodh-demo", time.Second, logger.NewNop())

	err := svc.NotifyLead(context.Background(), &model.LeadRequest{LeadInfo: &model.LeadInfo{Name: "A", Email: "a@b.c"}})
	if err != nil {
		t.Fatalf("delivery failures should be swallowed, got %v", err)
	}
}
