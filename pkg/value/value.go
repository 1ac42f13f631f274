package value

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the JSON type of a Value.
type Kind int

// Value kinds.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

var kindNames = [...]string{
	Null:   "null",
	Bool:   "boolean",
	Number: "number",
	String: "string",
	Array:  "array",
	Object: "object",
}

// String returns the JSON type name ("null", "boolean", "number", ...).
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a JSON-compatible value.
// Only the fields matching Kind are meaningful.
type Value struct {
	Kind    Kind
	Bool    bool
	Num     json.Number // literal text of a number
	Str     string
	Items   []*Value
	Members []Member
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value *Value
}

// NewNull returns a null value.
func NewNull() *Value { return &Value{Kind: Null} }

// NewBool returns a boolean value.
func NewBool(b bool) *Value { return &Value{Kind: Bool, Bool: b} }

// NewString returns a string value.
func NewString(s string) *Value { return &Value{Kind: String, Str: s} }

// NewNumber returns a number value holding the literal text n.
// The text must already be a valid JSON number.
func NewNumber(n string) *Value { return &Value{Kind: Number, Num: json.Number(n)} }

// NewFloat returns a number value formatted the way JavaScript prints numbers.
func NewFloat(f float64) *Value { return NewNumber(FormatFloat(f)) }

// NewArray returns an array holding items.
func NewArray(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{Kind: Array, Items: items}
}

// NewObject returns an empty object.
func NewObject() *Value { return &Value{Kind: Object, Members: []Member{}} }

// IsContainer reports whether v is an array or object.
func (v *Value) IsContainer() bool {
	return v != nil && (v.Kind == Array || v.Kind == Object)
}

// Len returns the number of children of a container, 0 otherwise.
func (v *Value) Len() int {
	switch v.Kind {
	case Array:
		return len(v.Items)
	case Object:
		return len(v.Members)
	}
	return 0
}

// Get returns the member value for key, or nil when absent.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != Object {
		return nil
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

// Set assigns key on an object. An existing key keeps its position;
// a new key is appended.
func (v *Value) Set(key string, child *Value) {
	for i := range v.Members {
		if v.Members[i].Key == key {
			v.Members[i].Value = child
			return
		}
	}
	v.Members = append(v.Members, Member{Key: key, Value: child})
}

// Keys returns the object's keys in insertion order.
func (v *Value) Keys() []string {
	keys := make([]string, len(v.Members))
	for i, m := range v.Members {
		keys[i] = m.Key
	}
	return keys
}

// Append adds items to an array.
func (v *Value) Append(items ...*Value) {
	v.Items = append(v.Items, items...)
}

// Float returns the numeric value of a number, 0 for other kinds.
func (v *Value) Float() float64 {
	if v.Kind != Number {
		return 0
	}
	f, _ := v.Num.Float64()
	return f
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := *v
	switch v.Kind {
	case Array:
		c.Items = make([]*Value, len(v.Items))
		for i, it := range v.Items {
			c.Items[i] = it.Clone()
		}
	case Object:
		c.Members = make([]Member, len(v.Members))
		for i, m := range v.Members {
			c.Members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
	}
	return &c
}

// Equal reports deep equality. Object members compare in order;
// numbers compare by numeric value.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Null:
		return true
	case Bool:
		return a.Bool == b.Bool
	case Number:
		if a.Num == b.Num {
			return true
		}
		return a.Float() == b.Float()
	case String:
		return a.Str == b.Str
	case Array:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.Members) != len(b.Members) {
			return false
		}
		for i := range a.Members {
			if a.Members[i].Key != b.Members[i].Key || !Equal(a.Members[i].Value, b.Members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// FormatFloat formats f the way JavaScript's Number#toString does for
// the common ranges: integers without a fraction, exponent form outside
// [1e-6, 1e21).
func FormatFloat(f float64) string {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		// JSON has no NaN/Infinity; JSON.stringify writes null, callers
		// reject them earlier. -0 prints as 0.
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[0]
	exp = strings.TrimLeft(exp[1:], "0")
	if sign == '-' {
		return mant + "e-" + exp
	}
	return mant + "e+" + exp
}
