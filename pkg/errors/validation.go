package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds connection ids; they end up in SVG attributes and cache keys.
const maxIDLength = 256

// ValidateConnectionID rejects empty or overlong ids and ids containing
// whitespace or control characters. Ids become SVG element ids.
func ValidateConnectionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "connection id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "connection id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "connection id %q contains control characters", id)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "connection id %q contains whitespace", id)
		}
	}

	return nil
}

// ValidateColor accepts an empty string or a "#rgb"/"#rrggbb" hex colour.
func ValidateColor(c string) error {
	if c == "" {
		return nil
	}
	if !strings.HasPrefix(c, "#") || (len(c) != 4 && len(c) != 7) {
		return New(ErrCodeInvalidInput, "invalid colour %q (want #rgb or #rrggbb)", c)
	}
	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return New(ErrCodeInvalidInput, "invalid colour %q (want #rgb or #rrggbb)", c)
		}
	}
	return nil
}
