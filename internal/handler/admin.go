package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/shodh-memory/widget-gateway/internal/archive"
	"github.com/shodh-memory/widget-gateway/internal/clients"
	"github.com/shodh-memory/widget-gateway/internal/middleware"
	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
)

// ListSessionsResponse is the body of GET /api/admin/sessions.
type ListSessionsResponse struct {
	Sessions []model.SessionDigest `json:"sessions"`
	Count    int                   `json:"count"`
}

// ListClientsResponse is the body of GET /api/admin/clients.
type ListClientsResponse struct {
	Clients []clients.Client `json:"clients"`
}

// AdminHandler exposes archived digests and client configuration to operators.
type AdminHandler struct {
	archive archive.Store
	clients *clients.Table
	logger  *logger.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(store archive.Store, table *clients.Table, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		archive: store,
		clients: table,
		logger:  log,
	}
}

// Sessions handles GET /api/admin/sessions
func (h *AdminHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	h.logger.Info("listing archived sessions",
		zap.String("subject", middleware.GetSubject(r.Context())),
		zap.Int("limit", limit),
	)

	digests, err := h.archive.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list sessions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if digests == nil {
		digests = []model.SessionDigest{}
	}

	writeJSON(w, http.StatusOK, &ListSessionsResponse{
		Sessions: digests,
		Count:    len(digests),
	})
}

// Clients handles GET /api/admin/clients
func (h *AdminHandler) Clients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &ListClientsResponse{Clients: h.clients.List()})
}
