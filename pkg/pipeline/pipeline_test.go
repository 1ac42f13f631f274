package pipeline

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/visualizeme/pkg/cache"
	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/observability"
	"github.com/matzehuels/visualizeme/pkg/source"
)

const sample = `{"a":{"x":1},"b":[1,2]}`

func quietRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	var buf bytes.Buffer
	return NewRunner(c, nil, log.New(&buf))
}

func sampleDoc(t *testing.T) *document.Document {
	t.Helper()
	doc := document.New(nil)
	if err := doc.Import("sample.json", sample, source.ModeJSON); err != nil {
		t.Fatalf("Import: %v", err)
	}
	return doc
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"layout", false},
		{"json", false},
		{"ts", false},
		{"yaml", false},
		{"wrapped", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
	if err := ValidateFormat("gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("invalid format code = %v", errors.GetCode(err))
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.Validate(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}
	if opts.RootLabel != "root" || opts.Engine != EngineNative || opts.Theme != "light" {
		t.Errorf("defaults = %q %q %q", opts.RootLabel, opts.Engine, opts.Theme)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Scale != DefaultScale || opts.Logger == nil {
		t.Error("Scale and Logger should be defaulted")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"engine", Options{Engine: "dot"}, errors.ErrCodeInvalidInput},
		{"theme", Options{Theme: "neon"}, errors.ErrCodeInvalidInput},
		{"mode", Options{Mode: "xml"}, errors.ErrCodeInvalidMode},
		{"collapse", Options{CollapseDepth: -1}, errors.ErrCodeInvalidInput},
		{"format", Options{Formats: []string{"svg", "gif"}}, errors.ErrCodeInvalidFormat},
		{"search", Options{Search: "a\x00b"}, errors.ErrCodeInvalidSearchTerm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.Validate()
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}

	opts := Options{}
	opts.Layout.HorizontalSpacing = 100
	opts.Layout.NodeWidth = 200
	if err := opts.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("oversized node: %v", err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	light := Options{Theme: "light"}
	light.SetDefaults()
	dark := Options{Theme: "dark"}
	dark.SetDefaults()

	k := cache.NewDefaultKeyer()
	if k.ArtifactKey("h", light.ArtifactKeyOpts(FormatSVG)) == k.ArtifactKey("h", dark.ArtifactKeyOpts(FormatSVG)) {
		t.Error("theme should change the artifact key")
	}
	if !light.ArtifactKeyOpts(FormatSVG).Interactive {
		t.Error("native svg is interactive by default")
	}
	if light.ArtifactKeyOpts(FormatPNG).Scale != DefaultScale {
		t.Error("png key should carry the scale")
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewMemoryCache(16)
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(t, c)
	doc := sampleDoc(t)

	opts := Options{Formats: []string{FormatSVG, FormatDOT, FormatLayout, FormatJSON}}
	res, err := r.Execute(ctx, doc, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.NodeCount != 6 || res.Stats.VisibleCount != 6 || res.Stats.Depth != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	for _, f := range opts.Formats {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing artifact %s", f)
		}
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact: %.40s", res.Artifacts[FormatSVG])
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("<script")) {
		t.Error("svg should be interactive by default")
	}
	if res.CacheInfo.Hits != 0 || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", res.CacheInfo)
	}
	if c.Len() != 3 {
		t.Errorf("cached entries = %d, want 3 (exports are not cached)", c.Len())
	}

	again, err := r.Execute(ctx, doc, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if again.CacheInfo.Hits != 3 || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", again.CacheInfo)
	}
	if !bytes.Equal(again.Artifacts[FormatSVG], res.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	opts.Refresh = true
	fresh, err := r.Execute(ctx, doc, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if fresh.CacheInfo.Hits != 0 {
		t.Errorf("refresh should bypass cache: %+v", fresh.CacheInfo)
	}
}

func TestExecuteCollapseAndSearch(t *testing.T) {
	ctx := context.Background()
	r := quietRunner(t, nil)
	doc := sampleDoc(t)

	res, err := r.Execute(ctx, doc, Options{CollapseDepth: 1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.VisibleCount != 3 {
		t.Errorf("collapse depth 1: visible = %d, want 3", res.Stats.VisibleCount)
	}

	res2, err := r.Execute(ctx, doc, Options{Collapsed: []string{`["b"]`, `["a","x"]`, "missing"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res2.Stats.VisibleCount != 4 {
		t.Errorf("explicit collapse: visible = %d, want 4", res2.Stats.VisibleCount)
	}
	if res.LayoutKey == res2.LayoutKey {
		t.Error("different collapse state should change the layout key")
	}

	res3, err := r.Execute(ctx, doc, Options{Search: "a.x"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res3.Matches != 1 {
		t.Errorf("matches = %d, want 1", res3.Matches)
	}
	if !bytes.Contains(res3.Artifacts[FormatSVG], []byte(`class="node type-number matched"`)) {
		t.Error("matched node should be marked in the svg")
	}
}

func TestExecuteExports(t *testing.T) {
	ctx := context.Background()
	r := quietRunner(t, nil)
	doc := document.New(nil)
	text := "export const site = { title: \"Home\" };\n"
	if err := r.Import(ctx, doc, "site.ts", text, source.ModeSourceLiteral); err != nil {
		t.Fatalf("Import: %v", err)
	}

	res, err := r.Execute(ctx, doc, Options{Formats: []string{FormatSource, FormatYAML, FormatWrapped}, Static: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if string(res.Artifacts[FormatSource]) != "export const site = {\n  title: \"Home\"\n};\n" {
		t.Errorf("source export:\n%s", res.Artifacts[FormatSource])
	}
	if !bytes.Contains(res.Artifacts[FormatWrapped], []byte(`"__meta"`)) {
		t.Error("wrapped export should carry metadata")
	}
}

func TestExecuteEmptyDocument(t *testing.T) {
	r := quietRunner(t, nil)
	_, err := r.Execute(context.Background(), document.New(nil), Options{})
	if !errors.Is(err, errors.ErrCodeEmptyDocument) {
		t.Errorf("empty document: %v", err)
	}
}

type importRecorder struct {
	observability.NoopPipelineHooks
	calls int
	err   error
}

func (h *importRecorder) OnImportComplete(_ context.Context, _, _ string, _ int, _ time.Duration, err error) {
	h.calls++
	h.err = err
}

func TestImportHooks(t *testing.T) {
	rec := &importRecorder{}
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	r := quietRunner(t, nil)
	doc := sampleDoc(t)
	err := r.Import(context.Background(), doc, "bad.json", `{"a":`, source.ModeJSON)
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Fatalf("Import error = %v", err)
	}
	if rec.calls != 1 || rec.err == nil {
		t.Errorf("hook calls=%d err=%v", rec.calls, rec.err)
	}
	if doc.Name != "sample.json" {
		t.Error("failed import should keep the previous document")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	r := quietRunner(t, nil)

	doc, err := r.Load(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Mode != source.ModeJSON || doc.Empty() {
		t.Errorf("Load: mode=%s empty=%v", doc.Mode, doc.Empty())
	}

	_, err = r.Load(context.Background(), path, Options{Mode: "source-literal"})
	if err == nil {
		t.Error("JSON text as module source should fail")
	}
}

func TestLoadLiteralDisabled(t *testing.T) {
	r := quietRunner(t, nil)
	r.Parser = source.NewParser(source.Unavailable("switched off"))

	// The input does not exist: the engine check must come before any read.
	missing := filepath.Join(t.TempDir(), "site.ts")
	_, err := r.Load(context.Background(), missing, Options{})
	if !errors.Is(err, errors.ErrCodeEngineUnavailable) {
		t.Errorf("Load(.ts) error = %v, want ENGINE_UNAVAILABLE", err)
	}
	_, err = r.Load(context.Background(), filepath.Join(t.TempDir(), "data.json"), Options{Mode: "source-literal"})
	if !errors.Is(err, errors.ErrCodeEngineUnavailable) {
		t.Errorf("Load(mode override) error = %v, want ENGINE_UNAVAILABLE", err)
	}

	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Load(context.Background(), path, Options{}); err != nil {
		t.Errorf("JSON input should not need the engine: %v", err)
	}
}

func TestNewRunnerDefaultLogger(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Logger == nil || r.Logger == log.Default() {
		t.Error("NewRunner(nil logger) should use a private discard logger")
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/site.ts" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("export const site = { title: 'Home' };\n"))
	}))
	defer srv.Close()
	r := quietRunner(t, nil)

	doc, err := r.Load(context.Background(), srv.URL+"/site.ts", Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Mode != source.ModeSourceLiteral || !doc.HasMetadata() {
		t.Errorf("Load: mode=%s metadata=%v", doc.Mode, doc.HasMetadata())
	}

	_, err = r.Load(context.Background(), srv.URL+"/missing.json", Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing URL error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestExtension(t *testing.T) {
	for format, want := range map[string]string{
		FormatSVG: ".svg", FormatPNG: ".png", FormatDOT: ".dot",
		FormatLayout: ".layout.json", FormatSource: ".ts", FormatYAML: ".yaml", FormatJSON: ".json",
	} {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%s) = %s, want %s", format, got, want)
		}
	}
}
