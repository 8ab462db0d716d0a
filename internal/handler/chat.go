package handler

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/shodh-memory/widget-gateway/internal/middleware"
	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/internal/service"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
)

const (
	errMessageRequired = "Message is required"
	errChatFailed      = "Failed to process chat request"
)

// ChatHandler handles the chat and end-of-session endpoint.
type ChatHandler struct {
	chatService    *service.ChatService
	sessionService *service.SessionService
	logger         *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatSvc *service.ChatService, sessionSvc *service.SessionService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService:    chatSvc,
		sessionService: sessionSvc,
		logger:         log,
	}
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid chat request body", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errChatFailed)
		return
	}

	clientID := h.chatService.ClientID(req.ClientID)
	log := requestLogger(h.logger, r, clientID)

	if req.SessionEnd {
		h.sessionService.EndSession(r.Context(), service.EndSessionRequest{
			SessionID: req.SessionID,
			ClientID:  clientID,
			History:   req.History,
			Lead:      req.LeadInfo,
			Behavior:  req.Behavior,
		})
		writeJSON(w, http.StatusOK, &model.AckResponse{Success: true})
		return
	}

	if msg, ok := validateChatRequest(w, &req); !ok {
		log.Debug("rejected chat request", zap.String("reason", msg))
		return
	}

	reply, err := h.chatService.GenerateReply(r.Context(), service.ReplyRequest{
		Message:  req.Message,
		ClientID: clientID,
		History:  req.History,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, errMessageRequired)
			return
		}
		log.Error("chat completion failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errChatFailed)
		return
	}

	writeJSON(w, http.StatusOK, &model.ChatResponse{Response: reply})
}

// validateChatRequest writes a 400 and returns false when req cannot be answered.
func validateChatRequest(w http.ResponseWriter, req *model.ChatRequest) (string, bool) {
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, errMessageRequired)
		return errMessageRequired, false
	}
	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return err.Error(), false
	}
	if err := middleware.ValidateHistory(req.History); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return err.Error(), false
	}
	return "", true
}
