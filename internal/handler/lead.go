package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/internal/service"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
)

const errLeadRequired = "Name and email are required"

// LeadHandler handles lead capture notifications.
type LeadHandler struct {
	leadService *service.LeadService
	logger      *logger.Logger
}

// NewLeadHandler creates a new lead handler.
func NewLeadHandler(leadSvc *service.LeadService, log *logger.Logger) *LeadHandler {
	return &LeadHandler{
		leadService: leadSvc,
		logger:      log,
	}
}

// Lead handles POST /api/lead
func (h *LeadHandler) Lead(w http.ResponseWriter, r *http.Request) {
	var req model.LeadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid lead request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, errLeadRequired)
		return
	}

	if err := h.leadService.NotifyLead(r.Context(), &req); err != nil {
		if errors.Is(err, service.ErrInvalidLead) {
			writeError(w, http.StatusBadRequest, errLeadRequired)
			return
		}
		requestLogger(h.logger, r, req.ClientID).Error("lead notification failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, &model.AckResponse{Success: true})
}
