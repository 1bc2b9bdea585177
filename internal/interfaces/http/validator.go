package http

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/webautomy/relay/internal/entities"
)

// Input validation constants
const (
	MaxUsernameLength = 50
	MaxOrgNameLength  = 255
	MaxBodyLength     = 4096 // WhatsApp text message limit
	MaxMediaURLLength = 2048
	MaxKeywordLength  = 255
	MaxReplyLength    = 4096
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
	slugPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidSlug checks if a username is safe (alphanumeric + underscore + hyphen)
func ValidSlug(s string) bool {
	if s == "" || len(s) > MaxUsernameLength {
		return false
	}
	return slugPattern.MatchString(s)
}

// ValidPhone checks recipient numbers (digits, optional leading +)
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// NormalizeMediaKind maps the request's mediaType string onto a known kind.
// Unknown values fall back to image, the dashboard default.
func NormalizeMediaKind(s string) entities.MediaKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "document":
		return entities.MediaDocument
	case "video":
		return entities.MediaVideo
	case "image", "":
		return entities.MediaImage
	default:
		return entities.MediaImage
	}
}

// SanitizeString removes null bytes and invalid UTF-8
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")

	// Keep only valid UTF-8
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return s
}

// ValidateLength checks if string is within bounds
func ValidateLength(s string, min, max int) bool {
	l := len(s)
	return l >= min && l <= max
}
