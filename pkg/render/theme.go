package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/visualizeme/pkg/errors"
)

// FontFamily is the CSS font stack for labels.
const FontFamily = `ui-sans-serif, system-ui, -apple-system, 'Segoe UI', Roboto, sans-serif`

// MonoFamily is the CSS font stack for value previews.
const MonoFamily = `ui-monospace, SFMono-Regular, Menlo, Consolas, monospace`

// Theme is a color palette for the diagram.
type Theme struct {
	Name       string
	Background string
	NodeFill   string
	NodeStroke string
	Text       string
	MutedText  string
	Edge       string
	Hover      string
	Match      string
	Selected   string

	// Accent colors keyed by JSON type name.
	Types map[string]string
}

// Built-in themes.
var (
	Light = Theme{
		Name:       "light",
		Background: "#ffffff",
		NodeFill:   "#f8fafc",
		NodeStroke: "#94a3b8",
		Text:       "#0f172a",
		MutedText:  "#475569",
		Edge:       "#cbd5e1",
		Hover:      "#2563eb",
		Match:      "#f59e0b",
		Selected:   "#7c3aed",
		Types: map[string]string{
			"object":  "#0ea5e9",
			"array":   "#10b981",
			"string":  "#e11d48",
			"number":  "#d97706",
			"boolean": "#7c3aed",
			"null":    "#64748b",
		},
	}
	Dark = Theme{
		Name:       "dark",
		Background: "#0b1120",
		NodeFill:   "#1e293b",
		NodeStroke: "#475569",
		Text:       "#e2e8f0",
		MutedText:  "#94a3b8",
		Edge:       "#334155",
		Hover:      "#60a5fa",
		Match:      "#fbbf24",
		Selected:   "#a78bfa",
		Types: map[string]string{
			"object":  "#38bdf8",
			"array":   "#34d399",
			"string":  "#fb7185",
			"number":  "#fbbf24",
			"boolean": "#c4b5fd",
			"null":    "#94a3b8",
		},
	}
)

// Themes lists the built-in theme names.
var Themes = []string{Light.Name, Dark.Name}

// ThemeByName returns a built-in theme. The empty name selects Light.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(name) {
	case "", Light.Name:
		return Light, nil
	case Dark.Name:
		return Dark, nil
	}
	return Theme{}, errors.New(errors.ErrCodeInvalidInput, "unknown theme %q (must be one of: %s)", name, strings.Join(Themes, ", "))
}

// css renders the theme's stylesheet.
func (t Theme) css() string {
	var b strings.Builder
	fmt.Fprintf(&b, `
    svg.visualizeme { background: %s; }
    .edge { fill: none; stroke: %s; stroke-width: 1.5; }
    .edge.hover-path { stroke: %s; stroke-width: 3; }
    .node rect.box { fill: %s; stroke: %s; stroke-width: 1.2; }
    .node text { font-family: %s; fill: %s; pointer-events: none; }
    .node text.label { font-size: 13px; font-weight: 600; }
    .node text.summary { font-family: %s; font-size: 11px; fill: %s; }
    .node text.toggle { font-size: 13px; font-weight: 700; fill: %s; }
    .node .toggle-hit { fill: transparent; cursor: pointer; }
    .node { cursor: pointer; }
    .node.collapsed rect.box { stroke-dasharray: 4 3; }
    .node.matched rect.box { stroke: %s; stroke-width: 3; }
    .node.ancestor-of-match rect.box { stroke: %s; stroke-dasharray: 2 2; }
    .node.hover-path rect.box { stroke: %s; stroke-width: 2.5; }
    .node.hovered rect.box { stroke-width: 3.5; }
    .node.selected rect.box { stroke: %s; stroke-width: 3.5; }`,
		t.Background, t.Edge, t.Hover, t.NodeFill, t.NodeStroke,
		FontFamily, t.Text, MonoFamily, t.MutedText, t.MutedText,
		t.Match, t.Match, t.Hover, t.Selected)
	for _, typ := range []string{"object", "array", "string", "number", "boolean", "null"} {
		fmt.Fprintf(&b, "\n    .node.type-%s rect.accent { fill: %s; }", typ, t.Types[typ])
	}
	return b.String()
}
