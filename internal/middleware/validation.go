package middleware

import (
	"errors"
	"regexp"
	"unicode/utf8"

	"github.com/shodh-memory/widget-gateway/internal/model"
)

const (
	// MaxMessageLength bounds a single visitor message.
	MaxMessageLength = 4000

	// MaxTranscriptLength bounds the number of entries in a submitted transcript.
	MaxTranscriptLength = 200

	// MaxBodyBytes bounds request bodies; voice payloads carry base64 audio.
	MaxBodyBytes = 10 << 20
)

var (
	clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	colorPattern    = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ValidateMessageContent validates a non-empty message.
func ValidateMessageContent(content string) error {
	if len(content) > MaxMessageLength {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateHistory validates visitor-supplied history.
func ValidateHistory(history []model.Message) error {
	if len(history) > MaxTranscriptLength {
		return errors.New("history exceeds maximum length")
	}
	for _, m := range history {
		if len(m.Content) > 4*MaxMessageLength {
			return errors.New("history entry exceeds maximum length")
		}
	}
	return nil
}

// ValidClientID reports whether id is a well formed client id.
func ValidClientID(id string) bool {
	return clientIDPattern.MatchString(id)
}

// ValidColor reports whether c is a #rgb or #rrggbb color.
func ValidColor(c string) bool {
	return colorPattern.MatchString(c)
}

// ValidPosition reports whether p is a supported launcher position.
func ValidPosition(p string) bool {
	return p == "left" || p == "right"
}
