package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds graph and item identifiers accepted from the outside.
const maxIDLength = 256

// ValidateID validates a graph or item identifier received over the HTTP API
// or the CLI. The rules are conservative because ids end up in cache keys
// and URLs:
//   - No empty ids
//   - No control characters or null bytes
//   - No slashes or backslashes
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidInput, "id cannot contain path separators")
	}

	return nil
}

// ValidatePropertyPath validates a dotted property path such as
// "attributes.text.content".
//
// Validation rules:
//   - Path cannot be empty
//   - No empty segments (leading, trailing or doubled dots)
//   - No control characters
func ValidatePropertyPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "property path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "property path contains invalid characters")
		}
	}

	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return New(ErrCodeInvalidPath, "property path %q has an empty segment", path)
		}
	}

	return nil
}
