package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// entityIDRegex matches dataset entity identifiers such as "openssl",
// "fips-203" or "aws_kms".
var entityIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateEntityID validates an entity identifier received from a user.
//
// The rules are conservative:
//   - No empty ids
//   - Maximum length of 128 characters
//   - No control characters
//   - Only letters, digits, dot, dash and underscore
func ValidateEntityID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "entity id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidID, "entity id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "entity id contains invalid control characters")
		}
	}

	if !entityIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid entity id: %q", id)
	}

	return nil
}

// ValidatePath validates a local dataset path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !IsURL(rawURL) {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// IsURL reports whether s looks like an http(s) URL rather than a path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ValidateQuery validates a free-text search query.
func ValidateQuery(q string) error {
	if len(q) > 200 {
		return New(ErrCodeInvalidInput, "query too long (max 200 characters)")
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "query contains invalid control characters")
		}
	}
	return nil
}
