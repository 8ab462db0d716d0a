package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns the global CORS middleware. Preflights pass through to the
// routes so widget endpoints can answer them with their own headers.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:     []string{"https://*", "http://*"},
		AllowedMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID"},
		ExposedHeaders:     []string{"X-Correlation-ID"},
		AllowCredentials:   false,
		MaxAge:             300,
		OptionsPassthrough: true,
	})
}

// WidgetCORS sets the fixed cross-origin headers every widget endpoint
// returns, on success, error and preflight alike.
func WidgetCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}
