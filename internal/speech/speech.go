// Package speech provides speech-to-text and text-to-speech providers.
package speech

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by providers that lack credentials.
var ErrNotConfigured = errors.New("speech provider not configured")

// Provider transcribes and synthesizes audio. Audio crosses the API as base64.
type Provider interface {
	// Transcribe returns the text spoken in audioBase64.
	Transcribe(ctx context.Context, audioBase64 string) (string, error)

	// Synthesize returns base64 encoded audio for text.
	Synthesize(ctx context.Context, text string) (string, error)

	// Name returns the provider name.
	Name() string
}

// Unavailable is the provider used when speech is not configured.
type Unavailable struct{}

// Transcribe implements Provider.
func (Unavailable) Transcribe(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// Synthesize implements Provider.
func (Unavailable) Synthesize(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// Name implements Provider.
func (Unavailable) Name() string {
	return "unavailable"
}
