package serialize

import (
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/value"
)

// Source regenerates module text from meta's template, substituting each
// placeholder with the literal form of the export it names.
//
// It fails with MISSING_EXPORT when v lacks an export, STALE_METADATA when
// a placeholder is absent from the template, and UNSUPPORTED_VALUE_TYPE
// when a value has no literal form.
func Source(meta *source.Metadata, v *value.Value) (string, error) {
	if meta == nil {
		return "", errors.New(errors.ErrCodeNoMetadata, "no conversion metadata; import module source first")
	}

	type splice struct {
		start, end int
		text       string
	}
	splices := make([]splice, 0, len(meta.Entries))
	for _, e := range meta.Entries {
		var child *value.Value
		if v != nil && v.Kind == value.Object {
			child = v.Get(e.Name)
		}
		if child == nil {
			return "", errors.New(errors.ErrCodeMissingExport, "export %q is missing from the current value", e.Name)
		}
		at := strings.Index(meta.Template, e.Placeholder)
		if at < 0 {
			return "", errors.New(errors.ErrCodeStaleMetadata, "placeholder for export %q not found in template", e.Name)
		}
		lit, err := Literal(child, e.BaseIndent)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeUnsupportedValue, err, "export %q", e.Name)
		}
		splices = append(splices, splice{start: at, end: at + len(e.Placeholder), text: lit})
	}
	sort.Slice(splices, func(i, j int) bool { return splices[i].start < splices[j].start })

	var b strings.Builder
	prev := 0
	for _, s := range splices {
		if s.start < prev {
			return "", errors.New(errors.ErrCodeStaleMetadata, "overlapping placeholders in template")
		}
		b.WriteString(meta.Template[prev:s.start])
		b.WriteString(s.text)
		prev = s.end
	}
	b.WriteString(meta.Template[prev:])
	return b.String(), nil
}

// Literal pretty-prints v as an object/array literal. The first line is
// not indented; continuation lines start with baseIndent followed by two
// spaces per nesting level. Identifier keys are written bare.
func Literal(v *value.Value, baseIndent string) (string, error) {
	var b strings.Builder
	if err := writeLiteral(&b, v, baseIndent, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeLiteral(b *strings.Builder, v *value.Value, base string, depth int) error {
	if v == nil {
		b.WriteString("null")
		return nil
	}
	switch v.Kind {
	case value.Null:
		b.WriteString("null")
	case value.Bool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case value.Number:
		if v.Num == "" {
			return errors.New(errors.ErrCodeUnsupportedValue, "number without literal text")
		}
		b.WriteString(v.Num.String())
	case value.String:
		b.WriteString(value.Quote(v.Str))
	case value.Array:
		if len(v.Items) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			indentLine(b, base, depth+1)
			if err := writeLiteral(b, it, base, depth+1); err != nil {
				return err
			}
		}
		indentLine(b, base, depth)
		b.WriteByte(']')
	case value.Object:
		if len(v.Members) == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				b.WriteByte(',')
			}
			indentLine(b, base, depth+1)
			b.WriteString(propertyKey(m.Key))
			b.WriteString(": ")
			if err := writeLiteral(b, m.Value, base, depth+1); err != nil {
				return err
			}
		}
		indentLine(b, base, depth)
		b.WriteByte('}')
	default:
		return errors.New(errors.ErrCodeUnsupportedValue, "value of kind %s has no literal form", v.Kind)
	}
	return nil
}

func indentLine(b *strings.Builder, base string, depth int) {
	b.WriteByte('\n')
	b.WriteString(base)
	for range depth {
		b.WriteString(Indent)
	}
}

func propertyKey(k string) string {
	if value.IsIdentifier(k) {
		return k
	}
	return value.Quote(k)
}

func itoa(n int) string { return strconv.Itoa(n) }
