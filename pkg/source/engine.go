package source

import (
	"strings"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/value"
)

// Engine extracts exported literals from module text.
//
// Hosts check Available once at startup and disable source-literal mode
// when it reports an error, instead of failing on first use.
type Engine interface {
	// Name identifies the engine in logs and capability reports.
	Name() string

	// Available reports whether the engine can be used.
	Available() error

	// Extract evaluates the module's exported literals.
	Extract(text string, opts ExtractOptions) (*Result, error)
}

// ExtractOptions selects the module grammar.
type ExtractOptions struct {
	// JSX accepts JSX elements in expression position, as in .tsx files.
	JSX bool
}

// NativeEngine is the built-in literal engine.
type NativeEngine struct{}

// Native returns the built-in engine.
func Native() Engine { return NativeEngine{} }

// Name implements Engine.
func (NativeEngine) Name() string { return "native" }

// Available implements Engine. The built-in engine is always available.
func (NativeEngine) Available() error { return nil }

// Extract implements Engine.
func (NativeEngine) Extract(text string, opts ExtractOptions) (*Result, error) {
	exports, err := scanModule(text, opts.JSX)
	if err != nil {
		return nil, err
	}
	if len(exports) == 0 {
		return nil, errors.New(errors.ErrCodeNoExportsFound,
			"no exported object or array literals found")
	}

	root := value.NewObject()
	meta := &Metadata{Version: MetadataVersion}
	var tmpl strings.Builder
	cursor := 0
	for _, e := range exports {
		ph := Placeholder(e.name, e.start, e.end)
		if strings.Contains(text, ph) {
			return nil, errors.New(errors.ErrCodeParse, "input already contains placeholder %s", ph)
		}
		tmpl.WriteString(text[cursor:e.start])
		tmpl.WriteString(ph)
		cursor = e.end

		root.Set(e.name, e.value)
		meta.Entries = append(meta.Entries, Entry{
			Name:        e.name,
			Placeholder: ph,
			BaseIndent:  lineIndent(text, e.start),
		})
	}
	tmpl.WriteString(text[cursor:])
	meta.Template = tmpl.String()

	return &Result{Value: root, Metadata: meta}, nil
}

// lineIndent returns the leading whitespace of the line containing offset.
func lineIndent(text string, offset int) string {
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	end := start
	for end < offset && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return text[start:end]
}

type unavailableEngine struct {
	reason string
}

// Unavailable returns an engine that refuses every request with
// ENGINE_UNAVAILABLE. Hosts use it when source-literal support is
// switched off in configuration.
func Unavailable(reason string) Engine { return unavailableEngine{reason: reason} }

func (e unavailableEngine) Name() string { return "unavailable" }

func (e unavailableEngine) Available() error {
	return errors.New(errors.ErrCodeEngineUnavailable, "source-literal engine unavailable: %s", e.reason)
}

func (e unavailableEngine) Extract(string, ExtractOptions) (*Result, error) {
	return nil, e.Available()
}
