// Package errors provides structured error types for visualizeme.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, explorer and server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly messages shown in status lines
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes are grouped by the user action that produces them:
//   - Input errors: PARSE_ERROR, UNSUPPORTED_LITERAL, NO_EXPORTS_FOUND, DUPLICATE_EXPORT
//   - Edit errors: INVALID_EDIT, PATH_NOT_FOUND
//   - Export errors: MISSING_EXPORT, STALE_METADATA, UNSUPPORTED_VALUE_TYPE
//   - Environment errors: ENGINE_UNAVAILABLE
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateExport, "duplicate export %q", name)
//	if errors.Is(err, errors.ErrCodeDuplicateExport) {
//	    // report and keep the previous diagram
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParse, origErr, "invalid JSON")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidMode         Code = "INVALID_MODE"
	ErrCodeParse               Code = "PARSE_ERROR"
	ErrCodeUnsupportedLiteral  Code = "UNSUPPORTED_LITERAL"
	ErrCodeNoExportsFound      Code = "NO_EXPORTS_FOUND"
	ErrCodeDuplicateExport     Code = "DUPLICATE_EXPORT"
	ErrCodeInvalidFormat       Code = "INVALID_FORMAT"
	ErrCodeInvalidFilename     Code = "INVALID_FILENAME"
	ErrCodeInvalidSearchTerm   Code = "INVALID_SEARCH_TERM"
	ErrCodeInvalidEvent        Code = "INVALID_EVENT"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"
	ErrCodeNotFound            Code = "NOT_FOUND"
	ErrCodeFileNotFound        Code = "FILE_NOT_FOUND"
	ErrCodeDocumentNotFound    Code = "DOCUMENT_NOT_FOUND"
	ErrCodeEmptyDocument       Code = "EMPTY_DOCUMENT"
	ErrCodeInvalidEdit         Code = "INVALID_EDIT"
	ErrCodePathNotFound        Code = "PATH_NOT_FOUND"
	ErrCodeMissingExport       Code = "MISSING_EXPORT"
	ErrCodeStaleMetadata       Code = "STALE_METADATA"
	ErrCodeUnsupportedValue    Code = "UNSUPPORTED_VALUE_TYPE"
	ErrCodeNoMetadata          Code = "NO_METADATA"
	ErrCodeEngineUnavailable   Code = "ENGINE_UNAVAILABLE"
	ErrCodeRendererUnavailable Code = "RENDERER_UNAVAILABLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// so a PARSE_ERROR wrapped inside an INVALID_EDIT matches both codes.
// Typed errors that report their own code (see LiteralError) match too.
func Is(err error, code Code) bool {
	for err != nil {
		var c coder
		if errors.As(err, &c) && c.Code() == code {
			return true
		}
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// coder is implemented by typed errors that carry a fixed code.
type coder interface {
	Code() Code
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// LiteralError reports a construct the literal evaluator cannot turn into a value.
// Construct names the rejected syntax ("spread element", "array hole", ...).
type LiteralError struct {
	Construct string
	Export    string
	Line      int
	Column    int
}

// Error implements the error interface.
func (e *LiteralError) Error() string {
	if e.Export != "" {
		return fmt.Sprintf("unsupported %s in export %q at %d:%d", e.Construct, e.Export, e.Line, e.Column)
	}
	return fmt.Sprintf("unsupported %s at %d:%d", e.Construct, e.Line, e.Column)
}

// Code returns the error code for this error type.
func (e *LiteralError) Code() Code {
	return ErrCodeUnsupportedLiteral
}
