// Package errors provides structured error types for bundledeps.
//
// Errors carry a machine-readable [Code] so callers can tell the fatal
// registry and cache failures apart from ordinary input problems:
//
//   - DUPLICATE_KIND, REGISTRY_SEALED: configuration errors raised while the
//     serialization registry is initialized. They must stop startup.
//   - UNKNOWN_KIND, INVALID_RECORD: raised while decoding persisted records.
//     The cache layer treats them as a full miss for the affected entry.
//   - INVALID_*: input validation failures (manifests, config, identifiers).
//
// Validation diagnostics produced by dependencies are not errors in this
// sense; they are returned as data (see package dependency).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownKind, "no kind registered for %q", id)
//	if errors.Is(err, errors.ErrCodeUnknownKind) {
//	    // stale cache
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidRecord, cause, "read field %d", i)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Registry configuration errors (fatal at startup)
	ErrCodeDuplicateKind  Code = "DUPLICATE_KIND"
	ErrCodeRegistrySealed Code = "REGISTRY_SEALED"

	// Persisted record errors (fatal for the decode, cache miss for callers)
	ErrCodeUnknownKind   Code = "UNKNOWN_KIND"
	ErrCodeInvalidRecord Code = "INVALID_RECORD"

	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidIdentifier Code = "INVALID_IDENTIFIER"
	ErrCodeInvalidManifest   Code = "INVALID_MANIFEST"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"

	// Strict checks that produced diagnostics
	ErrCodeValidationFailed Code = "VALIDATION_FAILED"

	// Resource not found errors
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
// It unwraps the error chain looking for an *Error with a matching code.
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

// UserMessage returns the error without code prefixes. For an *Error the
// message is followed by its cause, so wrapped reasons are kept:
// "parse manifest: toml: line 1 ...". Other errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// IsFatalRecord reports whether err means a persisted record cannot be
// trusted (unknown kind or malformed record). Cache layers use it to decide
// that an entry must be dropped rather than partially reused.
func IsFatalRecord(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnknownKind, ErrCodeInvalidRecord:
		return true
	}
	return false
}
