package serialize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/value"
)

const siteModule = `// Site content.
import type { Site } from "./types";

export const site: Site = {
  title: "Home",
  tags: ["a", "b"],
};

export const empty = [];

export default { "content-type": "text/html", retries: 3 } as const;
`

var fixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func mustJSON(t *testing.T, s string) *value.Value {
	t.Helper()
	v, err := value.ParseJSON([]byte(s))
	require.NoError(t, err)
	return v
}

func mustModule(t *testing.T, text string) *source.Result {
	t.Helper()
	res, err := source.Parse(text, source.ModeSourceLiteral)
	require.NoError(t, err)
	return res
}

func TestJSONRoundTrip(t *testing.T) {
	for _, in := range []string{
		`null`,
		`"x"`,
		`-1.5e3`,
		`{"a":1,"b":[2,3]}`,
		`{"z":{"y":[true,false,null,{}]},"a":"é "}`,
		`[[],[[]],{"":0}]`,
	} {
		v := mustJSON(t, in)
		out := JSON(v)
		back, err := value.ParseJSON(out)
		require.NoError(t, err, in)
		assert.True(t, value.Equal(v, back), "round trip of %s gave %s", in, out)
	}
}

func TestJSONIndentation(t *testing.T) {
	got := string(JSON(mustJSON(t, `{"a":1,"b":[2,3]}`)))
	want := "{\n  \"a\": 1,\n  \"b\": [\n    2,\n    3\n  ]\n}"
	assert.Equal(t, want, got)
}

func TestWrappedRoundTrip(t *testing.T) {
	res := mustModule(t, siteModule)

	data, err := Wrapped(res.Value, res.Metadata, fixedTime)
	require.NoError(t, err)

	w := mustJSON(t, string(data))
	assert.Equal(t, []string{source.MetaKey, "site", "empty", "default"}, w.Keys())
	meta := w.Get(source.MetaKey)
	assert.Equal(t, []string{"version", "template", "source", "entries", "generatedAt"}, meta.Keys())
	assert.Equal(t, "2026-01-02T03:04:05Z", meta.Get("generatedAt").Str)

	back, err := source.Parse(string(data), source.ModeJSON)
	require.NoError(t, err)
	assert.True(t, value.Equal(res.Value, back.Value))
	require.NotNil(t, back.Metadata)
	assert.Equal(t, res.Metadata.Template, back.Metadata.Template)
	assert.Equal(t, res.Metadata.Entries, back.Metadata.Entries)
}

func TestWrappedNonObject(t *testing.T) {
	res := mustModule(t, "export const a = [1];\n")
	arr := mustJSON(t, `[1,2]`)

	w, err := WrapValue(arr, res.Metadata, fixedTime)
	require.NoError(t, err)
	assert.Equal(t, []string{source.MetaKey, WrappedValueKey}, w.Keys())

	inner, _, ok, err := source.Unwrap(w)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, value.Equal(arr, inner))
}

func TestWrappedErrors(t *testing.T) {
	_, err := Wrapped(mustJSON(t, `{}`), nil, fixedTime)
	assert.True(t, errors.Is(err, errors.ErrCodeNoMetadata))

	res := mustModule(t, "export const a = [1];\n")
	_, err = Wrapped(mustJSON(t, `{"__meta":1}`), res.Metadata, fixedTime)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestSourceExactOutput(t *testing.T) {
	res := mustModule(t, siteModule)
	out, err := Source(res.Metadata, res.Value)
	require.NoError(t, err)

	want := `// Site content.
import type { Site } from "./types";

export const site: Site = {
  title: "Home",
  tags: [
    "a",
    "b"
  ]
};

export const empty = [];

export default {
  "content-type": "text/html",
  retries: 3
} as const;
`
	assert.Equal(t, want, out)
}

func TestSourceReindentsWithBaseIndent(t *testing.T) {
	res := mustModule(t, "export const a =\n    {x: 1, y: [true]};\n")
	out, err := Source(res.Metadata, res.Value)
	require.NoError(t, err)
	assert.Equal(t, "export const a =\n    {\n      x: 1,\n      y: [\n        true\n      ]\n    };\n", out)
}

func TestSourceRoundTripPreservesValues(t *testing.T) {
	for _, text := range []string{
		siteModule,
		"export const a = { 'quoted key': `tmpl`, n: -0.5, h: 0xff };\nexport const b = [null, [], {}];\n",
		"export default [\n  { id: 1 },\n  { id: 2, tags: ['x'] },\n];\n",
	} {
		res := mustModule(t, text)
		out, err := Source(res.Metadata, res.Value)
		require.NoError(t, err)

		again := mustModule(t, out)
		assert.True(t, value.Equal(res.Value, again.Value), "re-import of:\n%s", out)
		assert.Equal(t, res.Metadata.Names(), again.Metadata.Names())
	}
}

func TestSourceAfterEdit(t *testing.T) {
	res := mustModule(t, siteModule)
	require.NoError(t, value.Set(res.Value, value.Path{value.KeySeg("site"), value.KeySeg("title")}, value.NewString("About")))

	out, err := Source(res.Metadata, res.Value)
	require.NoError(t, err)
	assert.Contains(t, out, `title: "About"`)

	again := mustModule(t, out)
	assert.True(t, value.Equal(res.Value, again.Value))
}

func TestSourceErrors(t *testing.T) {
	res := mustModule(t, siteModule)

	_, err := Source(nil, res.Value)
	assert.True(t, errors.Is(err, errors.ErrCodeNoMetadata))

	missing := res.Value.Clone()
	missing.Members = missing.Members[1:]
	_, err = Source(res.Metadata, missing)
	assert.True(t, errors.Is(err, errors.ErrCodeMissingExport))
	assert.Contains(t, err.Error(), `"site"`)

	_, err = Source(res.Metadata, mustJSON(t, `[1]`))
	assert.True(t, errors.Is(err, errors.ErrCodeMissingExport))

	stale := res.Metadata.Clone()
	stale.Template = strings.Replace(stale.Template, stale.Entries[1].Placeholder, "[]", 1)
	_, err = Source(stale, res.Value)
	assert.True(t, errors.Is(err, errors.ErrCodeStaleMetadata))

	odd := res.Value.Clone()
	odd.Get("site").Set("title", &value.Value{Kind: value.Kind(99)})
	_, err = Source(res.Metadata, odd)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedValue))
}

func TestSourceIgnoresPlaceholderLookalikesInValues(t *testing.T) {
	res := mustModule(t, "export const a = { s: 'x' };\nexport const b = [1];\n")
	trap := res.Metadata.Entries[1].Placeholder
	res.Value.Get("a").Set("s", value.NewString(trap))

	out, err := Source(res.Metadata, res.Value)
	require.NoError(t, err)
	again := mustModule(t, out)
	assert.Equal(t, trap, again.Value.Get("a").Get("s").Str)
	assert.True(t, value.Equal(mustJSON(t, `[1]`), again.Value.Get("b")))
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		in, base, want string
	}{
		{`{}`, "", "{}"},
		{`[]`, "  ", "[]"},
		{`"it's"`, "", `"it's"`},
		{`{"a b":1,"ok":true,"$x":null,"1st":"v"}`, "", "{\n  \"a b\": 1,\n  ok: true,\n  $x: null,\n  \"1st\": \"v\"\n}"},
		{`[[1]]`, "\t", "[\n\t  [\n\t    1\n\t  ]\n\t]"},
	}
	for _, tt := range tests {
		got, err := Literal(mustJSON(t, tt.in), tt.base)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestYAML(t *testing.T) {
	v := mustJSON(t, `{"z":1,"a":"true","list":[null,false,2.5,"1.5"],"empty":{},"none":[]}`)
	out, err := YAML(v)
	require.NoError(t, err)

	s := string(out)
	assert.Less(t, strings.Index(s, "z:"), strings.Index(s, "a:"), "member order preserved:\n%s", s)

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, 1, back["z"])
	assert.Equal(t, "true", back["a"])
	assert.Equal(t, []any{nil, false, 2.5, "1.5"}, back["list"])
	assert.Equal(t, map[string]any{}, back["empty"])
	assert.Equal(t, []any{}, back["none"])
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json": FormatJSON, "JSON": FormatJSON, "wrapped": FormatWrapped,
		"ts": FormatSource, "typescript": FormatSource, "yml": FormatYAML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestFilenames(t *testing.T) {
	tests := []struct {
		in   string
		f    Format
		want string
	}{
		{"site.tsx", FormatSource, "site.ts"},
		{"site.ts", FormatSource, "site.ts"},
		{"/tmp/data.json", FormatSource, "data.ts"},
		{"README", FormatSource, "README.ts"},
		{"", FormatSource, "export.ts"},
		{"../x/..", FormatSource, "export.ts"},
		{"data.json", FormatYAML, "data.yaml"},
		{"site.ts", FormatWrapped, "site.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename(tt.in, tt.f), tt.in)
	}
	assert.Equal(t, "site.ts", SourceFilename("site.tsx"))
}
