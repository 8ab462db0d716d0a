package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/shodh-memory/widget-gateway/internal/clients"
	"github.com/shodh-memory/widget-gateway/internal/digest"
	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/internal/notify"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
	"github.com/shodh-memory/widget-gateway/pkg/metrics"
)

// ErrInvalidLead is returned when name or email is missing.
var ErrInvalidLead = errors.New("name and email are required")

// LeadService forwards captured leads to the notification channels.
type LeadService struct {
	clients         clients.Resolver
	notifier        notify.Notifier
	defaultClientID string
	timeout         time.Duration
	logger          *logger.Logger
}

// NewLeadService creates a new lead service.
func NewLeadService(resolver clients.Resolver, notifier notify.Notifier, defaultClientID string, timeout time.Duration, log *logger.Logger) *LeadService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &LeadService{
		clients:         resolver,
		notifier:        notifier,
		defaultClientID: defaultClientID,
		timeout:         timeout,
		logger:          log,
	}
}

// NotifyLead validates the lead and forwards it. Delivery failures are logged, not returned.
func (s *LeadService) NotifyLead(ctx context.Context, req *model.LeadRequest) error {
	if req == nil || !req.LeadInfo.Complete() {
		return ErrInvalidLead
	}

	clientID := req.ClientID
	if clientID == "" {
		clientID = s.defaultClientID
	}
	clientName := s.clients.DisplayName(clientID)
	metrics.LeadsTotal.WithLabelValues(clientID).Inc()

	if s.notifier == nil {
		s.logger.Warn("no notification channel configured, skipping lead", zap.String("client_id", clientID))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	err := s.notifier.Notify(ctx, notify.Notification{
		ClientID: clientID,
		Type:     model.EventTypeLead,
		Text:     digest.ComposeLead(clientName, req.LeadInfo, req.PagePath),
		Metadata: map[string]any{"email": req.LeadInfo.Email, "page_path": req.PagePath},
	})
	switch {
	case errors.Is(err, notify.ErrNotConfigured):
		s.logger.Warn("no notification channel configured, skipping lead", zap.String("client_id", clientID))
	case err != nil:
		s.logger.Error("lead notification failed", zap.String("client_id", clientID), zap.Error(err))
	}
	return nil
}
