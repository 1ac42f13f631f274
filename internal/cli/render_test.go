package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/visualizeme/pkg/config"
	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/pipeline"
	"github.com/matzehuels/visualizeme/pkg/serialize"
	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/tree"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,png,layout", []string{"svg", "png", "layout"}},
		{"spaces trimmed", " svg , json ", []string{"svg", "json"}},
		{"empty parts dropped", "svg,,yaml", []string{"svg", "yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"svg", []string{"svg"}, false},
		{"diagrams", []string{"svg", "png", "pdf", "dot", "layout"}, false},
		{"exports", []string{"json", "wrapped", "ts", "yaml"}, false},
		{"unknown", []string{"gif"}, true},
		{"mixed", []string{"svg", "gif"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/site.json", "data/site"},
		{"", "-", appName},
		{"", "https://example.com/data/site.json", "site"},
		{"", "https://example.com", appName},
		{"out/site.svg", "site.json", "out/site"},
		{"out/site.layout.json", "site.json", "out/site"},
		{"out/site.wrapped.json", "site.json", "out/site"},
		{"out/site", "site.json", "out/site"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestArtifactExtension(t *testing.T) {
	tests := map[string]string{
		"svg":     ".svg",
		"layout":  ".layout.json",
		"json":    ".json",
		"wrapped": ".wrapped.json",
		"ts":      ".ts",
		"yaml":    ".yaml",
	}
	for format, want := range tests {
		if got := artifactExtension(format); got != want {
			t.Errorf("artifactExtension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "site.json")

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{
			"svg":  []byte("<svg/>"),
			"json": []byte("{}"),
		},
		formats: []string{"svg", "json"},
		input:   input,
	})
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}

	want := []string{
		filepath.Join(dir, "site.svg"),
		filepath.Join(dir, "site.export.json"),
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], p)
		}
	}
	data, err := os.ReadFile(want[0])
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("svg content = %q", data)
	}
}

func TestWriteArtifactsExplicitOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tree.svg")
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": []byte("<svg/>")},
		formats:   []string{"svg"},
		input:     "site.json",
		output:    out,
	})
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Errorf("paths = %v, want [%s]", paths, out)
	}
}

func TestWriteArtifactsManyToStdout(t *testing.T) {
	_, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": nil, "png": nil},
		formats:   []string{"svg", "png"},
		input:     "site.json",
		output:    "-",
	})
	if err == nil {
		t.Error("expected an error writing two formats to stdout")
	}
}

func TestParseEdits(t *testing.T) {
	edits, err := parseEdits([]string{`["a","x"]=5`, `["b",0]={"k":"v=1"}`})
	if err != nil {
		t.Fatalf("parseEdits: %v", err)
	}
	if len(edits) != 2 {
		t.Fatalf("len = %d, want 2", len(edits))
	}
	if edits[0].key != `["a","x"]` || edits[0].text != "5" {
		t.Errorf("edits[0] = %+v", edits[0])
	}
	if edits[1].key != `["b",0]` || edits[1].text != `{"k":"v=1"}` {
		t.Errorf("edits[1] = %+v", edits[1])
	}

	edits, err = parseEdits([]string{`["a]=b"]=1`, `["x", "y"]= true`})
	if err != nil {
		t.Fatalf("parseEdits: %v", err)
	}
	if edits[0].key != `["a]=b"]` || edits[0].text != "1" {
		t.Errorf("key with ]= inside: %+v", edits[0])
	}
	if edits[1].key != `["x","y"]` || edits[1].text != " true" {
		t.Errorf("spaced key: %+v", edits[1])
	}

	for _, bad := range []string{"a=1", `["a"`, `x["a"]=1`, `["a"]`, `["a"] =1`} {
		if _, err := parseEdits([]string{bad}); err == nil {
			t.Errorf("parseEdits(%q) should fail", bad)
		}
	}
}

func TestSourceLiteralSwitchedOff(t *testing.T) {
	c := New(io.Discard, LogError)
	cfg := config.Default()
	cfg.Source.Literal = false

	runner := c.runnerWith(cfg, nil, nil)
	if runner.Parser.SourceLiteralAvailable() {
		t.Error("runner should not offer source literals")
	}

	// The input does not exist, so any read would report FILE_NOT_FOUND.
	missing := filepath.Join(t.TempDir(), "site.ts")
	for name, run := range map[string]func() error{
		"inspect": func() error { return c.runInspect(context.Background(), cfg, missing, pipeline.Options{}) },
		"convert": func() error { return c.runConvert(context.Background(), cfg, missing, "") },
		"export": func() error {
			return c.runExport(context.Background(), cfg, missing, serialize.FormatJSON, pipeline.Options{}, nil, "")
		},
	} {
		if err := run(); !errors.Is(err, errors.ErrCodeEngineUnavailable) {
			t.Errorf("%s: error = %v, want ENGINE_UNAVAILABLE", name, err)
		}
	}

	if !c.runnerWith(config.Default(), nil, nil).Parser.SourceLiteralAvailable() {
		t.Error("default config should offer source literals")
	}
}

func TestConversionTarget(t *testing.T) {
	ts := document.New(nil)
	if err := ts.Import("site.ts", "export const site = { title: 'Home' };\n", source.ModeSourceLiteral); err != nil {
		t.Fatalf("Import ts: %v", err)
	}
	if f, err := conversionTarget(ts); err != nil || f != serialize.FormatWrapped {
		t.Errorf("ts target = %q, %v; want wrapped", f, err)
	}

	data, err := ts.Export(serialize.FormatWrapped, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	wrapped := document.New(nil)
	if err := wrapped.Import("site.wrapped.json", string(data), source.ModeJSON); err != nil {
		t.Fatalf("Import wrapped: %v", err)
	}
	if f, err := conversionTarget(wrapped); err != nil || f != serialize.FormatSource {
		t.Errorf("wrapped target = %q, %v; want ts", f, err)
	}

	plain := document.New(nil)
	if err := plain.Import("site.json", `{"a":1}`, source.ModeJSON); err != nil {
		t.Fatalf("Import json: %v", err)
	}
	if _, err := conversionTarget(plain); !errors.Is(err, errors.ErrCodeNoMetadata) {
		t.Errorf("plain json error = %v, want NO_METADATA", err)
	}
}

func TestExportName(t *testing.T) {
	doc := document.New(nil)
	if err := doc.Import("data/site.ts", "export const site = [1, 2];\n", source.ModeSourceLiteral); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := exportName(doc, serialize.FormatWrapped); got != "site.wrapped.json" {
		t.Errorf("wrapped name = %q", got)
	}
	if got := exportName(doc, serialize.FormatSource); got != "site.ts" {
		t.Errorf("source name = %q", got)
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(10, 4, 2, "title", false)
	for _, want := range []string{"10 nodes", "4 visible", `2 matches for "title"`} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine missing %q: %s", want, line)
		}
	}
	if line := statsLine(3, 3, 0, "", true); strings.Contains(line, "visible") {
		t.Errorf("visible count shown when nothing is collapsed: %s", line)
	}
}

func TestInspectReport(t *testing.T) {
	doc := document.New(nil)
	if err := doc.Import("site.json", `{"a":{"x":1,"y":2},"b":[true]}`, source.ModeJSON); err != nil {
		t.Fatalf("Import: %v", err)
	}
	report := inspectReport(doc, tree.Build(doc.Value, tree.DefaultRootLabel))
	for _, want := range []string{"site.json", "json", "number", "Type"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "exports") {
		t.Errorf("plain JSON should not list exports:\n%s", report)
	}
}

func TestCountEntries(t *testing.T) {
	dir := t.TempDir()
	if n := countEntries(dir); n != 0 {
		t.Errorf("empty dir count = %d", n)
	}
	if err := os.MkdirAll(filepath.Join(dir, "ab"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ab/one", "ab/two", "three"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if n := countEntries(dir); n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
	if n := countEntries(filepath.Join(dir, "missing")); n != 0 {
		t.Errorf("missing dir count = %d", n)
	}
}
