package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/shodh-memory/widget-gateway/internal/llm"
	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/internal/speech"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
	"github.com/shodh-memory/widget-gateway/pkg/metrics"
	"github.com/shodh-memory/widget-gateway/pkg/tracing"
)

// VoicePrompt is the system prompt for spoken replies.
const VoicePrompt = `You are a friendly assistant for shodh-memory.
You can respond in Hindi or English based on what the user speaks.
Keep responses concise (2-3 sentences) since this will be spoken aloud.
Be helpful and conversational.`

var (
	// ErrInvalidVoiceRequest is returned when the action lacks its payload.
	ErrInvalidVoiceRequest = errors.New("invalid voice request")

	// ErrUnintelligibleAudio is returned when transcription produced no text.
	ErrUnintelligibleAudio = errors.New("could not understand audio")
)

// VoiceConfig holds the sampling parameters for spoken replies.
type VoiceConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// VoiceService relays speech recognition, synthesis and spoken chat.
type VoiceService struct {
	speech    speech.Provider
	llmClient llm.Client
	cfg       VoiceConfig
	logger    *logger.Logger
}

// NewVoiceService creates a new voice service.
func NewVoiceService(provider speech.Provider, llmClient llm.Client, cfg VoiceConfig, log *logger.Logger) *VoiceService {
	return &VoiceService{
		speech:    provider,
		llmClient: llmClient,
		cfg:       cfg,
		logger:    log,
	}
}

// Handle dispatches req on its action and returns the response body.
func (s *VoiceService) Handle(ctx context.Context, req *model.VoiceRequest) (any, error) {
	ctx, span := tracing.Start(ctx, "voice.handle", attribute.String("voice.action", string(req.Action)))
	defer span.End()

	var (
		out any
		err error
	)
	switch {
	case req.Action == model.VoiceActionSTT && req.Audio != "":
		out, err = s.transcribe(ctx, req.Audio)
	case req.Action == model.VoiceActionTTS && req.Text != "":
		out, err = s.synthesize(ctx, req.Text)
	case req.Action == model.VoiceActionChat && req.Audio != "":
		out, err = s.converse(ctx, req.Audio, req.History)
	default:
		metrics.VoiceRequestsTotal.WithLabelValues(string(req.Action), "invalid").Inc()
		return nil, ErrInvalidVoiceRequest
	}

	status := "success"
	switch {
	case errors.Is(err, ErrUnintelligibleAudio):
		status = "unintelligible"
	case err != nil:
		status = "error"
		tracing.Fail(span, err)
	}
	metrics.VoiceRequestsTotal.WithLabelValues(string(req.Action), status).Inc()

	return out, err
}

func (s *VoiceService) transcribe(ctx context.Context, audio string) (*model.TranscriptionResponse, error) {
	text, err := s.speech.Transcribe(ctx, audio)
	if err != nil {
		return nil, err
	}
	return &model.TranscriptionResponse{Text: text}, nil
}

func (s *VoiceService) synthesize(ctx context.Context, text string) (*model.SynthesisResponse, error) {
	audio, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	return &model.SynthesisResponse{Audio: audio}, nil
}

func (s *VoiceService) converse(ctx context.Context, audio string, history []model.Message) (*model.VoiceChatResponse, error) {
	userText, err := s.speech.Transcribe(ctx, audio)
	if err != nil {
		return nil, err
	}
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, ErrUnintelligibleAudio
	}

	recent := RecentHistory(history, MaxHistory)
	messages := make([]llm.ChatMessage, 0, len(recent)+2)
	messages = append(messages, llm.ChatMessage{Role: string(model.RoleSystem), Content: VoicePrompt})
	messages = append(messages, toChatMessages(recent)...)
	messages = append(messages, llm.ChatMessage{Role: string(model.RoleUser), Content: userText})

	resp, err := complete(ctx, s.llmClient, "voice", &llm.CompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate voice reply: %w", err)
	}
	responseText := replyText(resp.Content)

	responseAudio, err := s.speech.Synthesize(ctx, responseText)
	if err != nil {
		return nil, err
	}

	return &model.VoiceChatResponse{
		UserText:      userText,
		ResponseText:  responseText,
		ResponseAudio: responseAudio,
	}, nil
}
