package errors

import (
	"strings"
	"testing"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid json", "data.json", false},
		{"valid ts", "profile.ts", false},
		{"valid hidden", ".data.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"with path /", "path/to/file.ts", true},
		{"with path \\", "path\\to\\file.ts", true},
		{"traversal", "..", true},
		{"null byte", "a\x00b.ts", true},
		{"newline", "a\nb.ts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFilename) {
				t.Errorf("ValidateFilename(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"data.json", "data.json"},
		{"/tmp/work/profile.ts", "profile.ts"},
		{`C:\work\profile.ts`, "profile.ts"},
		{"", "fallback.ts"},
		{"..", "fallback.ts"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.input, "fallback.ts"); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateSearchTerm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty clears", "", false},
		{"word", "rust", false},
		{"with tab", "a\tb", false},
		{"too long", strings.Repeat("x", MaxSearchTermLength+1), true},
		{"null byte", "a\x00", true},
		{"control char", "a\x07", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearchTerm(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSearchTerm(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
