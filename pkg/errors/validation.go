package errors

import (
	"strings"
	"unicode"
)

// ValidateRootPath validates a document root supplied by a user or API client.
//
// Rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateRootPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "root path cannot be empty")
	}
	if len(path) > 4096 {
		return New(ErrCodeInvalidPath, "root path too long (max 4096 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "root path contains invalid control characters")
		}
	}
	return nil
}

// ValidatePositionKey validates a position-store key received over the API.
// Keys are opaque but must be printable and reasonably short.
func ValidatePositionKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "position key cannot be empty")
	}
	if len(key) > 512 {
		return New(ErrCodeInvalidInput, "position key too long (max 512 characters)")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "position key contains invalid control characters")
		}
	}
	return nil
}
