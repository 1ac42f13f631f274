package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/visualizeme/pkg/errors"
)

// RootKey is the pathKey of the root node. Real paths encode as JSON
// arrays, so no path other than the empty one produces it.
const RootKey = "$root"

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySeg returns an object-key segment.
func KeySeg(k string) Segment { return Segment{Key: k} }

// IndexSeg returns an array-index segment.
func IndexSeg(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Path locates a Value inside a root. The empty path is the root.
type Path []Segment

// Child returns a new path extended by seg. The receiver is not modified.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// HasPrefix reports whether prefix is an ancestor-or-self of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i, s := range prefix {
		if p[i] != s {
			return false
		}
	}
	return true
}

// Key returns the canonical pathKey: RootKey for the root, otherwise a
// compact JSON array of keys (strings) and indices (numbers).
func (p Path) Key() string {
	if len(p) == 0 {
		return RootKey
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, s := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		if s.IsIndex {
			b.WriteString(strconv.Itoa(s.Index))
		} else {
			b.WriteString(Quote(s.Key))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// String returns the display form, e.g. skills[1].name or ["a b"].c.
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p {
		switch {
		case s.IsIndex:
			fmt.Fprintf(&b, "[%d]", s.Index)
		case IsIdentifier(s.Key):
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s.Key)
		default:
			b.WriteString("[" + Quote(s.Key) + "]")
		}
	}
	return b.String()
}

// ParseKey decodes a pathKey produced by Path.Key.
func ParseKey(key string) (Path, error) {
	if key == RootKey {
		return Path{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(key)))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil || len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid path key %q", key)
	}
	p := make(Path, len(raw))
	for i, r := range raw {
		switch s := r.(type) {
		case string:
			p[i] = KeySeg(s)
		case json.Number:
			n, err := strconv.Atoi(s.String())
			if err != nil || n < 0 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "invalid index %s in path key", s)
			}
			p[i] = IndexSeg(n)
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid segment %v in path key", r)
		}
	}
	return p, nil
}

// Get returns the Value at path inside root.
func Get(root *Value, path Path) (*Value, error) {
	cur := root
	for i, s := range path {
		next := step(cur, s)
		if next == nil {
			return nil, errors.New(errors.ErrCodePathNotFound, "path %s does not exist", path[:i+1])
		}
		cur = next
	}
	if cur == nil {
		return nil, errors.New(errors.ErrCodePathNotFound, "document is empty")
	}
	return cur, nil
}

func step(v *Value, s Segment) *Value {
	if v == nil {
		return nil
	}
	if s.IsIndex {
		if v.Kind != Array || s.Index < 0 || s.Index >= len(v.Items) {
			return nil
		}
		return v.Items[s.Index]
	}
	if v.Kind != Object {
		return nil
	}
	return v.Get(s.Key)
}

// Set replaces the contents of the Value at path with nv. The node keeps
// its identity, so pointers to it observe the new contents.
func Set(root *Value, path Path, nv *Value) error {
	target, err := Get(root, path)
	if err != nil {
		return err
	}
	*target = *nv.Clone()
	return nil
}

// TypeName returns the JSON type name of v.
func TypeName(v *Value) string {
	if v == nil {
		return Null.String()
	}
	return v.Kind.String()
}

// IsIdentifier reports whether s can be written as a bare property name.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
