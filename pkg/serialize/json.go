package serialize

import (
	"time"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/value"
)

// Indent is the indentation unit of every pretty-printed export.
const Indent = "  "

// WrappedValueKey holds a non-object Value inside the metadata wrapper.
const WrappedValueKey = "value"

// JSON encodes v with two-space indentation. It cannot fail.
func JSON(v *value.Value) []byte {
	return value.MarshalIndent(v, Indent)
}

// WrapValue builds the metadata wrapper: a "__meta" member followed by
// v's own members, or by a single "value" member when v is not an object.
func WrapValue(v *value.Value, meta *source.Metadata, now time.Time) (*value.Value, error) {
	if meta == nil {
		return nil, errors.New(errors.ErrCodeNoMetadata, "no conversion metadata; import module source first")
	}
	if v == nil {
		return nil, errors.New(errors.ErrCodeEmptyDocument, "no document loaded")
	}

	m := value.NewObject()
	m.Set("version", value.NewNumber(itoa(meta.Version)))
	m.Set("template", value.NewString(meta.Template))
	m.Set("source", value.NewString(meta.Source))
	entries := value.NewArray()
	for _, e := range meta.Entries {
		ev := value.NewObject()
		ev.Set("name", value.NewString(e.Name))
		ev.Set("placeholder", value.NewString(e.Placeholder))
		ev.Set("baseIndent", value.NewString(e.BaseIndent))
		entries.Append(ev)
	}
	m.Set("entries", entries)
	m.Set("generatedAt", value.NewString(now.UTC().Format(time.RFC3339)))

	w := value.NewObject()
	w.Set(source.MetaKey, m)
	if v.Kind != value.Object {
		w.Set(WrappedValueKey, v)
		return w, nil
	}
	for _, mem := range v.Members {
		if mem.Key == source.MetaKey {
			return nil, errors.New(errors.ErrCodeInvalidInput, "value already has a reserved %q key", source.MetaKey)
		}
		w.Members = append(w.Members, mem)
	}
	return w, nil
}

// Wrapped encodes the metadata wrapper of v with two-space indentation.
func Wrapped(v *value.Value, meta *source.Metadata, now time.Time) ([]byte, error) {
	w, err := WrapValue(v, meta, now)
	if err != nil {
		return nil, err
	}
	return JSON(w), nil
}
