package value

import (
	"testing"

	"github.com/matzehuels/visualizeme/pkg/errors"
)

func TestParseJSONPreservesOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"z":1,"a":2,"m":{"y":true,"b":null}}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	got := v.Keys()
	want := []string{"z", "a", "m"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
	if inner := v.Get("m").Keys(); inner[0] != "y" || inner[1] != "b" {
		t.Errorf("nested keys = %v", inner)
	}
}

func TestParseJSONDuplicateKeyKeepsFirstPosition(t *testing.T) {
	v, err := ParseJSON([]byte(`{"a":1,"b":2,"a":3}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if v.Len() != 2 {
		t.Fatalf("Len = %d, want 2", v.Len())
	}
	if v.Members[0].Key != "a" || v.Members[0].Value.Num != "3" {
		t.Errorf("first member = %+v", v.Members[0])
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"unterminated object", `{"a":1`},
		{"trailing comma", `{"a":1,}`},
		{"invalid json", `{invalid json`},
		{"trailing data", `{"a":1} {"b":2}`},
		{"trailing bracket", `[1]]`},
		{"single quotes", `{'a':1}`},
		{"bare word", `hello`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseJSON([]byte(tt.input))
			if err == nil {
				t.Fatalf("ParseJSON(%q) = %v, want error", tt.input, v)
			}
			if !errors.Is(err, errors.ErrCodeParse) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeParse)
			}
			if v != nil {
				t.Error("expected no partial result")
			}
		})
	}
}

func TestParseJSONScalars(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
	}{
		{"null", Null},
		{"true", Bool},
		{"-1.50e3", Number},
		{`"héllo"`, String},
		{"[]", Array},
		{"{}", Object},
	}
	for _, tt := range tests {
		v, err := ParseJSON([]byte(tt.input))
		if err != nil {
			t.Fatalf("ParseJSON(%q): %v", tt.input, err)
		}
		if v.Kind != tt.kind {
			t.Errorf("ParseJSON(%q).Kind = %v, want %v", tt.input, v.Kind, tt.kind)
		}
	}
}

func TestMarshalIndent(t *testing.T) {
	v, err := ParseJSON([]byte(`{"a":1,"b":[2,3],"c":{},"d":[],"e":"<tag> & \"q\""}`))
	if err != nil {
		t.Fatal(err)
	}
	want := `{
  "a": 1,
  "b": [
    2,
    3
  ],
  "c": {},
  "d": [],
  "e": "<tag> & \"q\""
}`
	if got := string(MarshalIndent(v, "  ")); got != want {
		t.Errorf("MarshalIndent =\n%s\nwant\n%s", got, want)
	}
	if got := string(Marshal(v)); got != `{"a":1,"b":[2,3],"c":{},"d":[],"e":"<tag> & \"q\""}` {
		t.Errorf("Marshal = %s", got)
	}
}

func TestRoundTripJSON(t *testing.T) {
	inputs := []string{
		`{"a":1,"b":[2,3]}`,
		`[null,true,false,0,-0.5,1e21,"x",{"k":[[]]}]`,
		`{"unicode":"日本","esc":"line\nbreak\ttab","num":1.50}`,
		`"just a string"`,
		`42`,
	}
	for _, in := range inputs {
		v, err := ParseJSON([]byte(in))
		if err != nil {
			t.Fatalf("ParseJSON(%q): %v", in, err)
		}
		again, err := ParseJSON(MarshalIndent(v, "  "))
		if err != nil {
			t.Fatalf("reparse of %q: %v", in, err)
		}
		if !Equal(v, again) {
			t.Errorf("round trip of %q changed value", in)
		}
	}
}

func TestNumberLiteralTextSurvives(t *testing.T) {
	v, err := ParseJSON([]byte(`{"price":1.50,"big":12345678901234567890}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(Marshal(v)); got != `{"price":1.50,"big":12345678901234567890}` {
		t.Errorf("Marshal = %s", got)
	}
}

func TestValueJSONMarshaler(t *testing.T) {
	var v Value
	if err := v.UnmarshalJSON([]byte(`{"k":[1]}`)); err != nil {
		t.Fatal(err)
	}
	out, err := v.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"k":[1]}` {
		t.Errorf("MarshalJSON = %s", out)
	}
}
