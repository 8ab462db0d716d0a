package handler

import "net/http"

// ReadinessChecker reports whether a dependency is usable.
type ReadinessChecker interface {
	IsConnected() bool
	Status() string
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	nats ReadinessChecker
}

// NewHealthHandler creates a new health handler. nats is nil when the event
// stream is not configured.
func NewHealthHandler(nats ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		nats: nats,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.nats != nil && !h.nats.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS " + h.nats.Status(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
