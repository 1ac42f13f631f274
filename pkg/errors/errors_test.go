package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeDuplicateExport, "duplicate export %q", "a")

	if err.Code != ErrCodeDuplicateExport {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDuplicateExport)
	}

	if err.Message != `duplicate export "a"` {
		t.Errorf("Message = %v, want %v", err.Message, `duplicate export "a"`)
	}

	expected := `DUPLICATE_EXPORT: duplicate export "a"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeParse, cause, "invalid JSON")

	if err.Code != ErrCodeParse {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeParse)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeParse, "test"),
			code:     ErrCodeParse,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeParse, "test"),
			code:     ErrCodeMissingExport,
			expected: false,
		},
		{
			name:     "outer code of wrapped error",
			err:      Wrap(ErrCodeInvalidEdit, New(ErrCodeParse, "inner"), "outer"),
			code:     ErrCodeInvalidEdit,
			expected: true,
		},
		{
			name:     "inner code of wrapped error",
			err:      Wrap(ErrCodeInvalidEdit, New(ErrCodeParse, "inner"), "outer"),
			code:     ErrCodeParse,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("import: %w", New(ErrCodeNoExportsFound, "none")),
			code:     ErrCodeNoExportsFound,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeParse,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeParse,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeStaleMetadata, "test"), ErrCodeStaleMetadata},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidEdit, "value must be valid JSON"), "value must be valid JSON"},
		{"plain error", errors.New("plain error"), "plain error"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLiteralError(t *testing.T) {
	t.Run("with export", func(t *testing.T) {
		err := &LiteralError{Construct: "spread element", Export: "a", Line: 1, Column: 18}
		expected := `unsupported spread element in export "a" at 1:18`
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("without export", func(t *testing.T) {
		err := &LiteralError{Construct: "array hole", Line: 2, Column: 3}
		if err.Error() != "unsupported array hole at 2:3" {
			t.Errorf("Error() = %v", err.Error())
		}
	})

	t.Run("code method", func(t *testing.T) {
		err := &LiteralError{}
		if err.Code() != ErrCodeUnsupportedLiteral {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeUnsupportedLiteral)
		}
	})
}

func TestTypedErrorCodes(t *testing.T) {
	var err error = &LiteralError{Construct: "spread element", Export: "a", Line: 1, Column: 18}
	if !Is(err, ErrCodeUnsupportedLiteral) {
		t.Error("Is should match the code reported by a typed error")
	}
	if GetCode(err) != ErrCodeUnsupportedLiteral {
		t.Errorf("GetCode() = %v", GetCode(err))
	}
	wrapped := fmt.Errorf("import: %w", err)
	if !Is(wrapped, ErrCodeUnsupportedLiteral) {
		t.Error("Is should see through fmt wrapping")
	}
	if UserMessage(err) != `unsupported spread element in export "a" at 1:18` {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
}
