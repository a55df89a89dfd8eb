package errors

import (
	"strings"
	"unicode"
)

// ValidateModName validates a mod name passed on the command line.
// Mod names become file names under the game's Mods directory, so anything
// that could escape that directory is rejected:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateModName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "mod name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "mod name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "mod name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "mod name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateMapPath validates a map path inside a mod (e.g. "Lobbies/1-Beginner").
// The path is joined as Maps/<path>.bin, so it must stay relative.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateMapPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "map path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "map path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "map path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "map path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "map path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "map path cannot contain backslashes")
	}

	return nil
}
