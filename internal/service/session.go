package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/shodh-memory/widget-gateway/internal/archive"
	"github.com/shodh-memory/widget-gateway/internal/clients"
	"github.com/shodh-memory/widget-gateway/internal/digest"
	"github.com/shodh-memory/widget-gateway/internal/llm"
	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/internal/notify"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
	"github.com/shodh-memory/widget-gateway/pkg/metrics"
	"github.com/shodh-memory/widget-gateway/pkg/tracing"
)

// SummaryPrompt instructs the provider to digest a transcript.
const SummaryPrompt = `You summarize website chat sessions for the site owner.
Write 3 to 5 short bullet points covering what the visitor wanted, any product or pricing interest,
open questions, and a suggested follow-up. Plain text only, each bullet starting with "- ".`

// SessionConfig holds the summarization parameters.
type SessionConfig struct {
	Model           string
	MaxTokens       int
	Temperature     float64
	Timeout         time.Duration
	DefaultClientID string
}

// EndSessionRequest is the end-of-session payload sent by the widget.
type EndSessionRequest struct {
	SessionID string
	ClientID  string
	History   []model.Message
	Lead      *model.LeadInfo
	Behavior  *model.Behavior
}

// SessionService turns finished transcripts into digests.
type SessionService struct {
	llmClient llm.Client
	clients   clients.Resolver
	notifier  notify.Notifier
	archive   archive.Store
	cfg       SessionConfig
	logger    *logger.Logger
}

// NewSessionService creates a new session service. store may be nil.
func NewSessionService(
	llmClient llm.Client,
	resolver clients.Resolver,
	notifier notify.Notifier,
	store archive.Store,
	cfg SessionConfig,
	log *logger.Logger,
) *SessionService {
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &SessionService{
		llmClient: llmClient,
		clients:   resolver,
		notifier:  notifier,
		archive:   store,
		cfg:       cfg,
		logger:    log,
	}
}

// EndSession summarizes the transcript and forwards the digest. It never
// fails the caller: summary and delivery problems are logged. The work is
// detached from ctx cancellation and bounded by the configured timeout.
// An empty transcript returns nil without calling the provider.
func (s *SessionService) EndSession(ctx context.Context, req EndSessionRequest) *model.SessionDigest {
	transcript := RecentHistory(req.History, len(req.History))
	if len(transcript) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	ctx, span := tracing.Start(ctx, "session.end")
	defer span.End()

	clientID := req.ClientID
	if clientID == "" {
		clientID = s.cfg.DefaultClientID
	}
	clientName := s.clients.DisplayName(clientID)
	span.SetAttributes(
		attribute.String("widget.client_id", clientID),
		attribute.Int("widget.transcript_len", len(transcript)),
	)

	log := s.logger.With(zap.String("client_id", clientID), zap.String("session_id", req.SessionID))

	summary, err := s.summarize(ctx, transcript)
	summaryStatus := "ok"
	if err != nil {
		log.Warn("session summary failed", zap.Error(err))
		summaryStatus = "fallback"
	}
	metrics.SessionsEndedTotal.WithLabelValues(clientID, summaryStatus).Inc()

	d := &model.SessionDigest{
		ID:         uuid.New().String(),
		SessionID:  req.SessionID,
		ClientID:   clientID,
		ClientName: clientName,
		Lead:       req.Lead,
		Behavior:   req.Behavior,
		Summary:    summary,
		Transcript: transcript,
		CreatedAt:  time.Now().UTC(),
	}
	d.Text = digest.Compose(digest.Session{
		ClientName: clientName,
		Lead:       req.Lead,
		Behavior:   req.Behavior,
		Summary:    summary,
		Transcript: transcript,
	})

	if s.archive != nil {
		if err := s.archive.Save(ctx, d); err != nil {
			if errors.Is(err, archive.ErrDuplicate) {
				log.Info("session already summarized, skipping")
				return d
			}
			log.Error("failed to archive session digest", zap.Error(err))
		}
	}

	s.deliver(ctx, log, notify.Notification{
		ClientID: clientID,
		Type:     model.EventTypeSessionEnd,
		Text:     d.Text,
		Metadata: map[string]any{"digest_id": d.ID, "session_id": req.SessionID},
	})

	return d
}

func (s *SessionService) summarize(ctx context.Context, transcript []model.Message) (string, error) {
	resp, err := complete(ctx, s.llmClient, "summary", &llm.CompletionRequest{
		Model: s.cfg.Model,
		Messages: []llm.ChatMessage{
			{Role: string(model.RoleSystem), Content: SummaryPrompt},
			{Role: string(model.RoleUser), Content: digest.FormatTranscript(transcript)},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to summarize session: %w", err)
	}
	return resp.Content, nil
}

func (s *SessionService) deliver(ctx context.Context, log *logger.Logger, n notify.Notification) {
	if s.notifier == nil {
		log.Warn("no notification channel configured, skipping send")
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		if errors.Is(err, notify.ErrNotConfigured) {
			log.Warn("no notification channel configured, skipping send")
			return
		}
		log.Error("notification delivery failed", zap.Error(err))
	}
}
