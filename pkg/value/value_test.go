package value

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same object", `{"a":1,"b":[2]}`, `{"a":1,"b":[2]}`, true},
		{"member order", `{"a":1,"b":2}`, `{"b":2,"a":1}`, false},
		{"numeric text", `1.0`, `1`, true},
		{"kind differs", `"1"`, `1`, false},
		{"array length", `[1,2]`, `[1]`, false},
		{"nested", `{"a":{"b":[null]}}`, `{"a":{"b":[false]}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := ParseJSON([]byte(tt.a))
			b, _ := ParseJSON([]byte(tt.b))
			if got := Equal(a, b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	v, _ := ParseJSON([]byte(`{"a":[1,{"b":2}]}`))
	c := v.Clone()
	c.Get("a").Items[1].Set("b", NewString("changed"))
	if v.Get("a").Items[1].Get("b").Kind != Number {
		t.Error("Clone shares nested storage with the original")
	}
}

func TestSetKeepsPosition(t *testing.T) {
	o := NewObject()
	o.Set("a", NewBool(true))
	o.Set("b", NewNull())
	o.Set("a", NewString("x"))
	if keys := o.Keys(); len(keys) != 2 || keys[0] != "a" {
		t.Errorf("Keys = %v", keys)
	}
	if o.Get("a").Str != "x" {
		t.Errorf("a = %v", o.Get("a"))
	}
	if o.Get("missing") != nil {
		t.Error("Get of missing key should be nil")
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-42, "-42"},
		{0.5, "0.5"},
		{31, "31"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{123456789012, "123456789012"},
		{-1.25e-9, "-1.25e-9"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if Object.String() != "object" || Bool.String() != "boolean" || Kind(99).String() != "unknown" {
		t.Error("unexpected kind names")
	}
}
