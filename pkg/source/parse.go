package source

import (
	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/value"
)

// Result is the outcome of parsing one input.
// Metadata is nil unless the input was module text, or JSON carrying a
// metadata wrapper.
type Result struct {
	Value    *value.Value
	Metadata *Metadata
}

// Parser parses input text with a configurable literal engine.
type Parser struct {
	Engine Engine
}

// NewParser returns a Parser using engine, or the built-in engine when
// engine is nil.
func NewParser(engine Engine) *Parser {
	if engine == nil {
		engine = Native()
	}
	return &Parser{Engine: engine}
}

// Parse parses text with the built-in engine.
func Parse(text string, mode Mode) (*Result, error) {
	return NewParser(nil).Parse(text, mode)
}

// Parse interprets text according to mode. Module text is read as plain
// TypeScript. On failure no partial result is returned.
func (p *Parser) Parse(text string, mode Mode) (*Result, error) {
	return p.parse(text, mode, ExtractOptions{})
}

// ParseFile is Parse for text read from the file name: module text from
// a .tsx file may contain JSX.
func (p *Parser) ParseFile(name, text string, mode Mode) (*Result, error) {
	return p.parse(text, mode, ExtractOptions{JSX: IsJSXFilename(name)})
}

func (p *Parser) parse(text string, mode Mode, opts ExtractOptions) (*Result, error) {
	switch mode {
	case ModeJSON:
		return parseJSON(text)
	case ModeSourceLiteral:
		if err := p.Engine.Available(); err != nil {
			return nil, err
		}
		return p.Engine.Extract(text, opts)
	}
	return nil, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", mode)
}

// SourceLiteralAvailable reports whether this parser can handle module text.
func (p *Parser) SourceLiteralAvailable() bool {
	return p.Engine.Available() == nil
}

func parseJSON(text string) (*Result, error) {
	v, err := value.ParseJSON([]byte(text))
	if err != nil {
		return nil, err
	}
	inner, meta, ok, err := Unwrap(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Result{Value: v}, nil
	}
	return &Result{Value: inner, Metadata: meta}, nil
}
