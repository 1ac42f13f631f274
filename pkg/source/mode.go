package source

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/visualizeme/pkg/errors"
)

// Mode declares how input text is interpreted.
type Mode string

// Supported modes.
const (
	ModeJSON          Mode = "json"
	ModeSourceLiteral Mode = "source-literal"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeJSON, ModeSourceLiteral}

// Valid reports whether m is a supported mode.
func (m Mode) Valid() bool {
	return m == ModeJSON || m == ModeSourceLiteral
}

// ParseMode resolves a user-supplied mode name. "ts" and "typescript"
// are accepted as aliases for source-literal.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return ModeJSON, nil
	case "source-literal", "source", "literal", "ts", "typescript":
		return ModeSourceLiteral, nil
	}
	return "", errors.New(errors.ErrCodeInvalidMode, "unknown mode %q (want json or source-literal)", s)
}

// ModeForFilename infers the mode from a file extension:
// .ts and .tsx are source-literal, anything else is JSON.
func ModeForFilename(name string) Mode {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ts", ".tsx":
		return ModeSourceLiteral
	}
	return ModeJSON
}

// IsJSXFilename reports whether name is a .tsx file.
func IsJSXFilename(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".tsx")
}
