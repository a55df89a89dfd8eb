// Package errors provides structured error types for lobbymap.
//
// Every fatal condition in extraction and rendering is reported as an *Error
// carrying a machine-readable [Code], so the CLI can print a short message and
// callers can branch on the failure kind:
//
//   - MISSING_DATA: a required anchor, attribute or identifier is absent
//   - MALFORMED_INPUT: persisted text, a level file or an image cannot be decoded
//   - UNRESOLVED_REFERENCE: an edge or path token names an unknown label
//   - INVALID_INPUT / FILE_NOT_FOUND: bad command-line values
//   - INTERNAL: unexpected failures (font parsing, encoders)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingData, "room %q has no player entity", r.Name)
//	if errors.Is(err, errors.ErrCodeMissingData) {
//	    // abort extraction
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedInput, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Extraction and rendering failures
	ErrCodeMissingData         Code = "MISSING_DATA"
	ErrCodeMalformedInput      Code = "MALFORMED_INPUT"
	ErrCodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"

	// Command-line input errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// so a MISSING_DATA error wrapped by fmt.Errorf("%w") still matches.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// MissingData is shorthand for New(ErrCodeMissingData, ...).
func MissingData(format string, args ...any) *Error {
	return New(ErrCodeMissingData, format, args...)
}

// Malformed is shorthand for Wrap(ErrCodeMalformedInput, ...).
func Malformed(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeMalformedInput, cause, format, args...)
}

// Unresolved reports a label that is not present in the node map.
func Unresolved(label string) *Error {
	return New(ErrCodeUnresolvedReference, "label %q not found in node map", label)
}
