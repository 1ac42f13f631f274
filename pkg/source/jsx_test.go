package source

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/value"
)

const heroModule = `import React from 'react';

export const data = { title: "Hi", links: ["/a", "/b"] };

export function Hero({ name }: { name: string }) {
  return (
    <section className="hero" data-x='{'>
      <h1>Don't stop, {name}</h1>
      <p>a / b</p>
      {data.links.map((l) => <a key={l} href={` + "`${l}?q=1`" + `}>{l}</a>)}
      <>
        <br />
      </>
    </section>
  );
}

export const C = () => <div className="x">a / b</div>;
export const identity = <T,>(x: T) => x;
export const bounded = <T extends object>(x: T): T => x;
`

func TestParseTSXModule(t *testing.T) {
	res, err := NewParser(nil).ParseFile("Hero.tsx", heroModule, ModeSourceLiteral)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if got, want := string(value.Marshal(res.Value)), `{"data":{"title":"Hi","links":["/a","/b"]}}`; got != want {
		t.Errorf("value = %s, want %s", got, want)
	}
	if names := res.Metadata.Names(); len(names) != 1 || names[0] != "data" {
		t.Errorf("entry names = %v", names)
	}
	if !strings.Contains(res.Metadata.Template, "<h1>Don't stop, {name}</h1>") {
		t.Error("template lost the component markup")
	}
}

func TestParseJSXNeedsTSXFile(t *testing.T) {
	_, err := NewParser(nil).ParseFile("Hero.ts", heroModule, ModeSourceLiteral)
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf(".ts error = %v, want PARSE_ERROR", err)
	}
	if _, err := Parse(heroModule, ModeSourceLiteral); !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("Parse error = %v, want PARSE_ERROR", err)
	}
}

func TestParseJSXInsideLiteral(t *testing.T) {
	_, err := NewParser(nil).ParseFile("nav.tsx", `export const nav = [<a href="/">Home</a>];`, ModeSourceLiteral)
	var le *errors.LiteralError
	if !stderrors.As(err, &le) {
		t.Fatalf("error = %v, want LiteralError", err)
	}
	if le.Construct != "JSX element" {
		t.Errorf("Construct = %q", le.Construct)
	}
}

func TestTokenizeJSX(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tokenKind
	}{
		{"element", `x = <a>{b}</a>`, []tokenKind{tokIdent, tokPunct, tokJSX, tokEOF}},
		{"self closing", `f(<br />)`, []tokenKind{tokIdent, tokPunct, tokJSX, tokPunct, tokEOF}},
		{"fragment", `return <>it's</>`, []tokenKind{tokIdent, tokJSX, tokEOF}},
		{"comparison", `a < b`, []tokenKind{tokIdent, tokPunct, tokIdent, tokEOF}},
		{"type argument", `useState<string>(s)`, []tokenKind{tokIdent, tokPunct, tokIdent, tokPunct, tokPunct, tokIdent, tokPunct, tokEOF}},
		{"generic arrow", `f = <T,>(x) => x`, []tokenKind{
			tokIdent, tokPunct, tokPunct, tokIdent, tokPunct, tokPunct, tokPunct, tokIdent, tokPunct, tokPunct, tokIdent, tokEOF,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := tokenize(tt.input, true)
			if err != nil {
				t.Fatalf("tokenize: %v", err)
			}
			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("kinds = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("kinds = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestIsJSXFilename(t *testing.T) {
	for name, want := range map[string]bool{"App.tsx": true, "App.TSX": true, "site.ts": false, "data.json": false} {
		if got := IsJSXFilename(name); got != want {
			t.Errorf("IsJSXFilename(%q) = %v", name, got)
		}
	}
}
