package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds layout names so they stay usable as file names and keys.
const maxNameLength = 128

// layoutNameRegex matches names that are safe as file names, Redis keys and
// SQL/Mongo identifiers alike.
var layoutNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._-]*$`)

// ValidateLayoutName validates a layout name for safety and correctness.
// Layout names double as storage keys, so the rules are conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateLayoutName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "layout name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "layout name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "layout name contains invalid control characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "layout name cannot contain %q", "..")
	}

	if !layoutNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid layout name: %q", name)
	}

	return nil
}

// ValidatePath validates a user supplied file path for safety.
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
