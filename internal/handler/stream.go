package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/internal/service"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
	"github.com/shodh-memory/widget-gateway/pkg/metrics"
)

// StreamHandler handles SSE streaming of chat replies.
type StreamHandler struct {
	chatService *service.ChatService
	logger      *logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(chatSvc *service.ChatService, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		chatService: chatSvc,
		logger:      log,
	}
}

// Stream handles POST /api/chat/stream
// The body is the same as /api/chat; the reply arrives as token events
// followed by a done event carrying the full text.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid stream request body", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errChatFailed)
		return
	}

	clientID := h.chatService.ClientID(req.ClientID)
	log := requestLogger(h.logger, r, clientID)

	if _, ok := validateChatRequest(w, &req); !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	reply, err := h.chatService.StreamReply(ctx, service.ReplyRequest{
		Message:  req.Message,
		ClientID: clientID,
		History:  req.History,
	}, func(token string, index int) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		return sendSSEEvent(w, flusher, "token", &model.TokenEvent{
			Token: token,
			Index: index,
		})
	})
	if err != nil {
		if ctx.Err() == context.Canceled {
			log.Info("SSE client disconnected")
			return
		}
		log.Error("chat stream failed", zap.Error(err))
		sendSSEEvent(w, flusher, "error", &model.ErrorEvent{
			Code:    "stream_error",
			Message: errChatFailed,
		})
		return
	}

	sendSSEEvent(w, flusher, "done", &model.DoneEvent{Response: reply})
}
