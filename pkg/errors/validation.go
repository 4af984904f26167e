package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// applicationCodeRegex matches valid application codes: a short uppercase
// mnemonic like "ULM" or "SAM", letters first, digits allowed after.
var applicationCodeRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,19}$`)

// ValidateApplicationCode validates the short unique key of an application.
//
// The validation rules are intentionally conservative:
//   - No empty codes
//   - Uppercase letters and digits only, starting with a letter
//   - Maximum length of 20 characters
//
// Codes appear in URLs and in path-finding results, so anything that would
// need escaping is rejected outright.
func ValidateApplicationCode(code string) error {
	if code == "" {
		return New(ErrCodeInvalidInput, "application code cannot be empty")
	}

	if !applicationCodeRegex.MatchString(code) {
		return New(ErrCodeInvalidInput, "invalid application code: %q (expected 2-20 uppercase letters/digits)", code)
	}

	return nil
}

// ValidateDisplayName validates a human-readable name field.
// It rejects empty names, control characters, and names over 120 characters.
func ValidateDisplayName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 120 {
		return New(ErrCodeInvalidInput, "name too long (max 120 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	return nil
}

// hexColorRegex matches CSS hex colors like #10b981 or #fff.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a presentation color hint.
// Empty strings are allowed; the field is optional.
func ValidateHexColor(color string) error {
	if color == "" {
		return nil
	}

	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidInput, "invalid hex color: %q", color)
	}

	return nil
}

// emailRegex is a permissive single-@ check. Full RFC 5322 validation is a
// losing game; the owner_email field is informational, not a delivery target.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail validates an owner email address.
// Empty strings are allowed; the field is optional.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}

	if !emailRegex.MatchString(email) {
		return New(ErrCodeInvalidInput, "invalid email address: %q", email)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
// Empty strings are allowed; all URL fields are optional.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme: %q", rawURL)
	}

	return nil
}

// Tree depth bounds exposed by the HTTP API.
const (
	MinTreeDepth = 1
	MaxTreeDepth = 10
)

// ValidateMaxDepth validates a tree projection depth requested by a caller.
// Returns ErrCodeInvalidDepth if the value is outside [MinTreeDepth, MaxTreeDepth].
func ValidateMaxDepth(depth int) error {
	if depth < MinTreeDepth || depth > MaxTreeDepth {
		return New(ErrCodeInvalidDepth, "max_depth must be between %d and %d, got %d", MinTreeDepth, MaxTreeDepth, depth)
	}

	return nil
}
