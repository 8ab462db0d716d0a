package handler

import (
	"bytes"
	"embed"
	"net/http"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/shodh-memory/widget-gateway/internal/middleware"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
)

//go:embed templates/widget.js.tmpl
var templateFS embed.FS

const (
	defaultColor    = "#10b981"
	defaultPosition = "right"
)

var widgetTemplate = template.Must(template.ParseFS(templateFS, "templates/widget.js.tmpl"))

// widgetParams are the values substituted into the embeddable script.
type widgetParams struct {
	ClientID string
	APIURL   string
	Color    string
	Position string
}

// WidgetHandler serves the embeddable widget script.
type WidgetHandler struct {
	apiURL          string
	defaultClientID string
	logger          *logger.Logger
}

// NewWidgetHandler creates a widget handler whose script talks to apiURL.
func NewWidgetHandler(apiURL, defaultClientID string, log *logger.Logger) *WidgetHandler {
	return &WidgetHandler{
		apiURL:          strings.TrimRight(apiURL, "/"),
		defaultClientID: defaultClientID,
		logger:          log,
	}
}

// Script handles GET /widget.js
// Query parameters client, color and position fall back to defaults when invalid.
func (h *WidgetHandler) Script(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := widgetParams{
		ClientID: h.defaultClientID,
		APIURL:   h.apiURL,
		Color:    defaultColor,
		Position: defaultPosition,
	}
	if c := q.Get("client"); middleware.ValidClientID(c) {
		params.ClientID = c
	}
	if c := q.Get("color"); middleware.ValidColor(c) {
		params.Color = c
	}
	if p := q.Get("position"); middleware.ValidPosition(p) {
		params.Position = p
	}

	var buf bytes.Buffer
	if err := widgetTemplate.Execute(&buf, params); err != nil {
		h.logger.Error("failed to render widget script", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render widget")
		return
	}

	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
