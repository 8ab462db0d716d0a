// Package handler implements the HTTP handlers of the widget gateway.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shodh-memory/widget-gateway/internal/middleware"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// decodeJSON decodes a bounded request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, middleware.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// requestLogger scopes log to the current request.
func requestLogger(log *logger.Logger, r *http.Request, clientID string) *logger.Logger {
	return log.WithRequest(middleware.GetCorrelationID(r.Context()), clientID)
}

// Preflight answers widget OPTIONS requests. The CORS headers are set by
// middleware.WidgetCORS.
func Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	flusher.Flush()

	return nil
}
