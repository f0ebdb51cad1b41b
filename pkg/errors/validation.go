package errors

import (
	"strings"
	"unicode"
)

// maxIdentifierLength bounds registry identifiers and module IDs.
const maxIdentifierLength = 256

// ValidateIdentifier validates a serialization registry identifier.
// Identifiers are embedded in every persisted record, so the rules are strict:
//   - Not empty
//   - Maximum length of 256 characters
//   - No whitespace or control characters
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidIdentifier, "identifier cannot be empty")
	}
	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidIdentifier, "identifier too long (max %d characters)", maxIdentifierLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidIdentifier, "identifier %q contains whitespace or control characters", id)
		}
	}
	return nil
}

// ValidateModuleID validates a module identifier as used by the module graph.
// Module IDs are usually relative paths ("./math.wasm") so path characters
// are allowed, but control characters and null bytes are not.
func ValidateModuleID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "module id cannot be empty")
	}
	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidInput, "module id too long (max %d characters)", maxIdentifierLength)
	}
	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "module id %q contains invalid characters", id)
		}
	}
	return nil
}

// ValidateRequest validates a dependency request string.
func ValidateRequest(request string) error {
	if request == "" {
		return New(ErrCodeInvalidInput, "request cannot be empty")
	}
	if strings.ContainsRune(request, '\x00') {
		return New(ErrCodeInvalidInput, "request contains a null byte")
	}
	return nil
}
