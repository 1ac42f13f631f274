package source

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/value"
)

// MetadataVersion is the version written into new Metadata.
const MetadataVersion = 1

// MetaKey is the reserved top-level key of the JSON metadata wrapper.
const MetaKey = "__meta"

// Metadata is the Conversion Metadata of a source-literal import: the
// module text with each exported literal replaced by a placeholder, and
// the entries mapping placeholders back to export names.
type Metadata struct {
	Version  int     `json:"version"`
	Template string  `json:"template"`
	Source   string  `json:"source"`
	Entries  []Entry `json:"entries"`
}

// Entry ties one exported literal to its placeholder.
// BaseIndent is the indentation of the line the literal starts on.
type Entry struct {
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	BaseIndent  string `json:"baseIndent"`
}

// Placeholder returns the template token for the literal of export name
// spanning [start, end) in the original text.
func Placeholder(name string, start, end int) string {
	return fmt.Sprintf("__VISUALIZEME_%s_%d_%d__", name, start, end)
}

// Names returns the export names in template order.
func (m *Metadata) Names() []string {
	names := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		names[i] = e.Name
	}
	return names
}

// Clone returns a copy of m that shares no slices with it.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	c := *m
	c.Entries = append([]Entry(nil), m.Entries...)
	return &c
}

// Validate checks that every entry's placeholder occurs in the template.
func (m *Metadata) Validate() error {
	if m.Version < 1 || m.Version > MetadataVersion {
		return errors.New(errors.ErrCodeStaleMetadata, "unsupported metadata version %d", m.Version)
	}
	for _, e := range m.Entries {
		if !strings.Contains(m.Template, e.Placeholder) {
			return errors.New(errors.ErrCodeStaleMetadata,
				"placeholder for export %q not found in template", e.Name)
		}
	}
	return nil
}

// Unwrap recognizes a "__meta" wrapper produced by the serializer.
// It returns the underlying value and its metadata, or ok=false when v is
// not a wrapper (a "__meta" member whose shape does not match is left
// alone as ordinary data).
func Unwrap(v *value.Value) (inner *value.Value, meta *Metadata, ok bool, err error) {
	if v == nil || v.Kind != value.Object {
		return v, nil, false, nil
	}
	mv := v.Get(MetaKey)
	if mv == nil || mv.Kind != value.Object {
		return v, nil, false, nil
	}
	tmpl := mv.Get("template")
	entries := mv.Get("entries")
	if tmpl == nil || tmpl.Kind != value.String || entries == nil || entries.Kind != value.Array {
		return v, nil, false, nil
	}

	meta = &Metadata{Version: MetadataVersion, Template: tmpl.Str}
	if ver := mv.Get("version"); ver != nil && ver.Kind == value.Number {
		f := ver.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, nil, false, errors.New(errors.ErrCodeStaleMetadata, "unsupported metadata version %s", ver.Num)
		}
		meta.Version = int(f)
	}
	if src := mv.Get("source"); src != nil && src.Kind == value.String {
		meta.Source = src.Str
	}
	for i, ev := range entries.Items {
		name, ph := ev.Get("name"), ev.Get("placeholder")
		if ev.Kind != value.Object || name == nil || name.Kind != value.String || ph == nil || ph.Kind != value.String {
			return nil, nil, false, errors.New(errors.ErrCodeParse, "metadata entry %d is malformed", i)
		}
		e := Entry{Name: name.Str, Placeholder: ph.Str}
		if ind := ev.Get("baseIndent"); ind != nil && ind.Kind == value.String {
			e.BaseIndent = ind.Str
		}
		meta.Entries = append(meta.Entries, e)
	}
	if err := meta.Validate(); err != nil {
		return nil, nil, false, err
	}

	rest := value.NewObject()
	for _, m := range v.Members {
		if m.Key != MetaKey {
			rest.Members = append(rest.Members, m)
		}
	}
	if rest.Len() == 1 && rest.Members[0].Key == "value" && !meta.hasEntry("value") {
		return rest.Members[0].Value, meta, true, nil
	}
	return rest, meta, true, nil
}

func (m *Metadata) hasEntry(name string) bool {
	for _, e := range m.Entries {
		if e.Name == name {
			return true
		}
	}
	return false
}
