package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/visualizeme/pkg/errors"
)

// ParseJSON decodes strict JSON text into a Value.
//
// Object members keep their source order; a repeated key keeps the
// position of its first occurrence and the value of its last, matching
// JSON.parse. Trailing data after the top-level value is rejected.
func ParseJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeParse, "input is empty")
		}
		return nil, parseError(err, dec.InputOffset())
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, parseError(err, dec.InputOffset())
		}
		return nil, errors.New(errors.ErrCodeParse,
			"unexpected %v after top-level value at offset %d", tok, dec.InputOffset())
	}
	return v, nil
}

func parseError(err error, offset int64) error {
	if se, ok := err.(*json.SyntaxError); ok {
		offset = se.Offset
	}
	msg := strings.TrimPrefix(err.Error(), "json: ")
	if err == io.ErrUnexpectedEOF {
		msg = "unexpected end of input"
	}
	return errors.Wrap(errors.ErrCodeParse, err, "invalid JSON at offset %d: %s", offset, msg)
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		return NewNumber(t.String()), nil
	case string:
		return NewString(t), nil
	case json.Delim:
		switch t {
		case '[':
			arr := NewArray()
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, eofToUnexpected(err)
				}
				arr.Items = append(arr.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, eofToUnexpected(err)
			}
			return arr, nil
		case '{':
			obj := NewObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, eofToUnexpected(err)
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be a string, got %v", kt)
				}
				child, err := decodeValue(dec)
				if err != nil {
					return nil, eofToUnexpected(err)
				}
				obj.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, eofToUnexpected(err)
			}
			return obj, nil
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func eofToUnexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// MarshalIndent encodes v as JSON, one member per line, using indent for
// each nesting level. An empty indent produces compact output.
func MarshalIndent(v *Value, indent string) []byte {
	var buf bytes.Buffer
	writeJSON(&buf, v, indent, 0)
	return buf.Bytes()
}

// Marshal encodes v as compact JSON.
func Marshal(v *Value) []byte {
	return MarshalIndent(v, "")
}

func writeJSON(buf *bytes.Buffer, v *Value, indent string, depth int) {
	if v == nil {
		buf.WriteString("null")
		return
	}
	switch v.Kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		buf.WriteString(v.Num.String())
	case String:
		buf.WriteString(Quote(v.Str))
	case Array:
		if len(v.Items) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			writeJSON(buf, it, indent, depth+1)
		}
		newline(buf, indent, depth)
		buf.WriteByte(']')
	case Object:
		if len(v.Members) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			buf.WriteString(Quote(m.Key))
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			writeJSON(buf, m.Value, indent, depth+1)
		}
		newline(buf, indent, depth)
		buf.WriteByte('}')
	}
}

func newline(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	for range depth {
		buf.WriteString(indent)
	}
}

// Quote returns s as a JSON string literal without HTML escaping.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// MarshalJSON implements json.Marshaler so a Value embeds in API payloads.
func (v *Value) MarshalJSON() ([]byte, error) {
	return Marshal(v), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}
