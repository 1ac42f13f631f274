package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxSearchTermLength bounds free-text search input.
const MaxSearchTermLength = 256

// ValidateFilename validates a download or input filename for safety.
// It ensures the name is a simple basename without path components.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 255 characters
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}
	if len(name) > 255 {
		return New(ErrCodeInvalidFilename, "filename too long (max 255 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFilename, "filename contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path separators")
	}
	if name == "." || name == ".." || strings.Contains(name, "..") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path traversal sequences (..)")
	}
	return nil
}

// SanitizeFilename reduces an arbitrary path to a safe basename.
// It returns fallback when nothing usable remains.
func SanitizeFilename(name, fallback string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, base)
	if ValidateFilename(base) != nil {
		return fallback
	}
	return base
}

// ValidateSearchTerm checks that a search term is printable and bounded.
// An empty term is valid and clears the search.
func ValidateSearchTerm(term string) error {
	if len(term) > MaxSearchTermLength {
		return New(ErrCodeInvalidSearchTerm, "search term too long (max %d characters)", MaxSearchTermLength)
	}
	for _, r := range term {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidSearchTerm, "search term contains invalid characters")
		}
	}
	return nil
}
