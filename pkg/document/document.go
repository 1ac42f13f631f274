package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/io"
	"github.com/matzehuels/visualizeme/pkg/serialize"
	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/value"
)

// Document is one imported input and its editable value.
type Document struct {
	ID        string
	Name      string
	Mode      source.Mode
	Value     *value.Value
	Metadata  *source.Metadata
	CreatedAt time.Time
	UpdatedAt time.Time

	parser *source.Parser
}

// New returns an empty document parsing with parser, or the built-in
// engine when parser is nil.
func New(parser *source.Parser) *Document {
	if parser == nil {
		parser = source.NewParser(nil)
	}
	now := time.Now().UTC()
	return &Document{
		ID:        uuid.NewString(),
		Mode:      source.ModeJSON,
		CreatedAt: now,
		UpdatedAt: now,
		parser:    parser,
	}
}

// Parser returns the parser used for imports.
func (d *Document) Parser() *source.Parser { return d.parser }

// SourceLiteralAvailable reports whether source-literal imports can work.
func (d *Document) SourceLiteralAvailable() bool {
	return d.parser.SourceLiteralAvailable()
}

// Empty reports whether no value has been imported.
func (d *Document) Empty() bool { return d.Value == nil }

// HasMetadata reports whether the document can be exported as source.
func (d *Document) HasMetadata() bool { return d.Metadata != nil }

// Import parses text in mode and replaces the document's content.
// On error the document is unchanged.
func (d *Document) Import(name, text string, mode source.Mode) error {
	if !mode.Valid() {
		return errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", mode)
	}
	if mode == source.ModeSourceLiteral && !d.parser.SourceLiteralAvailable() {
		return errors.New(errors.ErrCodeEngineUnavailable, "source-literal mode is unavailable")
	}
	res, err := d.parser.ParseFile(name, text, mode)
	if err != nil {
		return err
	}
	d.Name = name
	d.Mode = mode
	d.Value = res.Value
	d.Metadata = res.Metadata
	d.touch()
	return nil
}

// ImportFile reads path and imports it. An empty mode is inferred from
// the file extension.
func (d *Document) ImportFile(path string, mode source.Mode) error {
	data, err := io.ReadFile(path)
	if err != nil {
		return err
	}
	if mode == "" {
		mode = source.ModeForFilename(path)
	}
	return d.Import(path, string(data), mode)
}

// SetMode switches the input mode. Changing it discards metadata.
func (d *Document) SetMode(mode source.Mode) error {
	if !mode.Valid() {
		return errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", mode)
	}
	if mode != d.Mode {
		d.Mode = mode
		d.Metadata = nil
		d.touch()
	}
	return nil
}

// SetValue replaces the value after an edit. Metadata is kept.
func (d *Document) SetValue(v *value.Value) {
	d.Value = v
	d.touch()
}

// Touch marks the document as modified.
func (d *Document) Touch() { d.touch() }

func (d *Document) touch() { d.UpdatedAt = time.Now().UTC() }

// Export serializes the value in format f.
func (d *Document) Export(f serialize.Format, now time.Time) ([]byte, error) {
	if d.Value == nil {
		return nil, errors.New(errors.ErrCodeEmptyDocument, "nothing to export")
	}
	switch f {
	case serialize.FormatJSON:
		return serialize.JSON(d.Value), nil
	case serialize.FormatWrapped:
		return serialize.Wrapped(d.Value, d.Metadata, now)
	case serialize.FormatSource:
		out, err := serialize.Source(d.Metadata, d.Value)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	case serialize.FormatYAML:
		return serialize.YAML(d.Value)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q", f)
}

// ExportJSON returns the value as indented JSON.
func (d *Document) ExportJSON() ([]byte, error) {
	return d.Export(serialize.FormatJSON, time.Time{})
}

// ExportWrapped returns the value wrapped with its metadata.
func (d *Document) ExportWrapped() ([]byte, error) {
	return d.Export(serialize.FormatWrapped, time.Now())
}

// ExportSource regenerates the module text.
func (d *Document) ExportSource() ([]byte, error) {
	return d.Export(serialize.FormatSource, time.Time{})
}

// ExportYAML returns the value as YAML.
func (d *Document) ExportYAML() ([]byte, error) {
	return d.Export(serialize.FormatYAML, time.Time{})
}

// Filename returns the download name for format f.
func (d *Document) Filename(f serialize.Format) string {
	return serialize.Filename(d.Name, f)
}
