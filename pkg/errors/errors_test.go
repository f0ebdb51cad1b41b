package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownKind, "no kind registered for %q", "x/y")

	if err.Code != ErrCodeUnknownKind {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnknownKind)
	}
	if want := `UNKNOWN_KIND: no kind registered for "x/y"`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidRecord, cause, "read field %d", 3)

	if want := "INVALID_RECORD: read field 3: unexpected EOF"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, true},
		{"other code", New(ErrCodeInvalidInput, "x"), ErrCodeUnknownKind, false},
		{"outermost code wins", Wrap(ErrCodeInvalidRecord, New(ErrCodeUnknownKind, "inner"), "outer"), ErrCodeInvalidRecord, true},
		{"inner code hidden", Wrap(ErrCodeInvalidRecord, New(ErrCodeUnknownKind, "inner"), "outer"), ErrCodeUnknownKind, false},
		{"through fmt.Errorf", fmt.Errorf("extract src/a.js: %w", New(ErrCodeInvalidManifest, "x")), ErrCodeInvalidManifest, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("check: %w", New(ErrCodeValidationFailed, "2 diagnostics in app.toml"))

	if got := GetCode(err); got != ErrCodeValidationFailed {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeValidationFailed)
	}
	if got := UserMessage(err); got != "2 diagnostics in app.toml" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := errors.New("plain error")
	if got := GetCode(plain); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := UserMessage(plain); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
	wrapped := Wrap(ErrCodeInvalidRecord, New(ErrCodeInvalidRecord, "field 3 is int32, want string"), "deserialize %q", "x/y")
	if got, want := UserMessage(wrapped), `deserialize "x/y": field 3 is int32, want string`; got != want {
		t.Errorf("UserMessage(wrapped) = %q, want %q", got, want)
	}
	withPlainCause := Wrap(ErrCodeInvalidManifest, errors.New("toml: line 1: unexpected EOF"), "parse manifest")
	if got, want := UserMessage(withPlainCause), "parse manifest: toml: line 1: unexpected EOF"; got != want {
		t.Errorf("UserMessage(withPlainCause) = %q, want %q", got, want)
	}

	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestIsFatalRecord(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown kind", New(ErrCodeUnknownKind, "x"), true},
		{"invalid record", New(ErrCodeInvalidRecord, "x"), true},
		{"wrapped unknown kind", Wrap(ErrCodeUnknownKind, errors.New("eof"), "x"), true},
		{"duplicate kind", New(ErrCodeDuplicateKind, "x"), false},
		{"registry sealed", New(ErrCodeRegistrySealed, "x"), false},
		{"plain error", errors.New("plain"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatalRecord(tt.err); got != tt.want {
				t.Errorf("IsFatalRecord() = %v, want %v", got, tt.want)
			}
		})
	}
}
