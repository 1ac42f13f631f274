package serialize

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/visualizeme/pkg/errors"
)

// Format is an export format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatWrapped Format = "wrapped"
	FormatSource  Format = "ts"
	FormatYAML    Format = "yaml"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatWrapped, FormatSource, FormatYAML}

// ParseFormat resolves a format name. "source" and "typescript" are
// accepted for FormatSource and "yml" for FormatYAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "wrapped", "meta":
		return FormatWrapped, nil
	case "ts", "source", "typescript":
		return FormatSource, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q (must be one of: %s)", s, strings.Join(names, ", "))
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatSource:
		return ".ts"
	case FormatYAML:
		return ".yaml"
	}
	return ".json"
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatSource:
		return "text/typescript; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	}
	return "application/json"
}

// Filename derives an output filename from the input filename: the base
// name with its extension replaced by f's. Unusable names fall back to
// "export".
func Filename(input string, f Format) string {
	base := errors.SanitizeFilename(input, "export")
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		base = "export"
	}
	return base + f.Extension()
}

// SourceFilename derives the filename of a regenerated source module,
// normalizing the extension to ".ts".
func SourceFilename(input string) string {
	return Filename(input, FormatSource)
}
