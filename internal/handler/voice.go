package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/internal/service"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
)

const (
	errInvalidVoice   = "Invalid request. Provide audio+action or text+action"
	errUnintelligible = "Could not understand audio"
	errVoiceFailed    = "Voice processing failed"
)

// VoiceHandler handles the voice proxy endpoint.
type VoiceHandler struct {
	voiceService *service.VoiceService
	logger       *logger.Logger
}

// NewVoiceHandler creates a new voice handler.
func NewVoiceHandler(voiceSvc *service.VoiceService, log *logger.Logger) *VoiceHandler {
	return &VoiceHandler{
		voiceService: voiceSvc,
		logger:       log,
	}
}

// Voice handles POST /api/voice
func (h *VoiceHandler) Voice(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.logger, r, "")

	var req model.VoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Warn("invalid voice request body", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errVoiceFailed)
		return
	}

	resp, err := h.voiceService.Handle(r.Context(), &req)
	switch {
	case errors.Is(err, service.ErrInvalidVoiceRequest):
		writeError(w, http.StatusBadRequest, errInvalidVoice)
	case errors.Is(err, service.ErrUnintelligibleAudio):
		writeError(w, http.StatusBadRequest, errUnintelligible)
	case err != nil:
		log.Error("voice processing failed", zap.String("action", string(req.Action)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, errVoiceFailed)
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}
