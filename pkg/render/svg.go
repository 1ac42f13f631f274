package render

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/visualizeme/pkg/layout"
	"github.com/matzehuels/visualizeme/pkg/tree"
)

// Default zoom limits applied by the embedded script and by the view
// layer when clamping.
const (
	DefaultMinScale = 0.2
	DefaultMaxScale = 4.0
)

const (
	labelRunes   = 18
	summaryRunes = 22
	accentWidth  = 6
)

// Transform is the pan/zoom applied to the diagram viewport.
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Identity is the unpanned, unzoomed transform.
var Identity = Transform{Scale: 1}

// Attr renders the transform as an SVG transform attribute value.
func (t Transform) Attr() string {
	return fmt.Sprintf("translate(%s %s) scale(%s)", num(t.X), num(t.Y), num(t.Scale))
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme       Theme
	transform   Transform
	matches     map[string]bool
	hover       string
	selected    string
	interactive bool
	minScale    float64
	maxScale    float64
	title       string
}

func WithTheme(t Theme) SVGOption            { return func(r *svgRenderer) { r.theme = t } }
func WithTransform(t Transform) SVGOption    { return func(r *svgRenderer) { r.transform = t } }
func WithHover(key string) SVGOption         { return func(r *svgRenderer) { r.hover = key } }
func WithSelected(key string) SVGOption      { return func(r *svgRenderer) { r.selected = key } }
func WithInteractive(enabled bool) SVGOption { return func(r *svgRenderer) { r.interactive = enabled } }
func WithTitle(title string) SVGOption       { return func(r *svgRenderer) { r.title = title } }
func WithMatches(keys map[string]bool) SVGOption {
	return func(r *svgRenderer) { r.matches = keys }
}

// WithZoomLimits sets the scale range the embedded script clamps to.
func WithZoomLimits(min, max float64) SVGOption {
	return func(r *svgRenderer) {
		if min > 0 && max >= min {
			r.minScale, r.maxScale = min, max
		}
	}
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		theme:       Light,
		transform:   Identity,
		interactive: true,
		minScale:    DefaultMinScale,
		maxScale:    DefaultMaxScale,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.transform.Scale <= 0 {
		r.transform.Scale = 1
	}
	return r
}

// RenderSVG draws the layout as a standalone SVG document. Node classes
// reflect the view state passed through opts. A layout without nodes
// yields an empty but valid document.
func RenderSVG(l *layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	vx, vy, vw, vh := l.ViewBox()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="visualizeme theme-%s" viewBox="%s %s %s %s" width="%.0f" height="%.0f" data-min-scale="%s" data-max-scale="%s">`+"\n",
		EscapeXML(r.theme.Name), num(vx), num(vy), num(vw), num(vh), vw, vh, num(r.minScale), num(r.maxScale))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", EscapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", r.theme.css())
	fmt.Fprintf(&buf, `  <rect class="background" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(vx), num(vy), num(vw), num(vh), r.theme.Background)

	fmt.Fprintf(&buf, `  <g class="viewport" transform="%s" data-x="%s" data-y="%s" data-scale="%s">`+"\n",
		r.transform.Attr(), num(r.transform.X), num(r.transform.Y), num(r.transform.Scale))
	hoverPath := r.hoverPath(l)
	for _, e := range l.Edges {
		r.renderEdge(&buf, l, e, hoverPath)
	}
	ancestorsOfMatch := r.ancestorsOfMatches(l)
	for _, n := range l.Nodes {
		r.renderNode(&buf, l, n, hoverPath, ancestorsOfMatch)
	}
	buf.WriteString("  </g>\n")

	if r.interactive {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) hoverPath(l *layout.Layout) map[string]bool {
	if r.hover == "" || l.Tree == nil {
		return nil
	}
	chain := l.Tree.Ancestors(r.hover)
	set := make(map[string]bool, len(chain))
	for _, k := range chain {
		set[k] = true
	}
	return set
}

func (r *svgRenderer) ancestorsOfMatches(l *layout.Layout) map[string]bool {
	if len(r.matches) == 0 || l.Tree == nil {
		return nil
	}
	set := map[string]bool{}
	for key := range r.matches {
		chain := l.Tree.Ancestors(key)
		for i := 0; i < len(chain)-1; i++ {
			set[chain[i]] = true
		}
	}
	return set
}

func (r *svgRenderer) renderEdge(buf *bytes.Buffer, l *layout.Layout, e layout.Edge, hoverPath map[string]bool) {
	hh := l.Options.NodeHeight / 2
	x1, y1 := e.From.X, e.From.Y+hh
	x2, y2 := e.To.X, e.To.Y-hh
	my := (y1 + y2) / 2
	class := "edge"
	if hoverPath[e.From.Key] && hoverPath[e.To.Key] {
		class += " hover-path"
	}
	fmt.Fprintf(buf, `    <path class="%s" d="M%s,%s C%s,%s %s,%s %s,%s" data-from="%s" data-to="%s"/>`+"\n",
		class, num(x1), num(y1), num(x1), num(my), num(x2), num(my), num(x2), num(y2),
		EscapeXML(e.From.Key), EscapeXML(e.To.Key))
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, l *layout.Layout, n *tree.Node, hoverPath, ancestorsOfMatch map[string]bool) {
	w, h := l.Options.NodeWidth, l.Options.NodeHeight
	x, y := n.X-w/2, n.Y-h/2
	collapsed := !n.IsLeaf() && l.Collapse.IsCollapsed(n.Key)

	class := "node type-" + n.TypeName()
	for _, c := range []struct {
		on   bool
		name string
	}{
		{collapsed, "collapsed"},
		{r.matches[n.Key], "matched"},
		{ancestorsOfMatch[n.Key], "ancestor-of-match"},
		{hoverPath[n.Key], "hover-path"},
		{r.hover == n.Key, "hovered"},
		{r.selected == n.Key, "selected"},
	} {
		if c.on {
			class += " " + c.name
		}
	}

	fmt.Fprintf(buf, `    <g class="%s" data-path="%s" data-ancestors="%s">`+"\n",
		class, EscapeXML(n.Key), EscapeXML(ancestorsJSON(l.Tree, n.Key)))
	title := n.Path.String()
	if n.IsRoot() {
		title = n.Label
	}
	fmt.Fprintf(buf, "      <title>%s</title>\n", EscapeXML(title))
	fmt.Fprintf(buf, `      <rect class="box" x="%s" y="%s" width="%s" height="%s" rx="6" ry="6"/>`+"\n",
		num(x), num(y), num(w), num(h))
	fmt.Fprintf(buf, `      <rect class="accent" x="%s" y="%s" width="%d" height="%s" rx="3" ry="3"/>`+"\n",
		num(x), num(y), accentWidth, num(h))
	fmt.Fprintf(buf, `      <text class="label" x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
		num(n.X), num(n.Y-4), EscapeXML(tree.Truncate(n.Label, labelRunes)))
	fmt.Fprintf(buf, `      <text class="summary" x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
		num(n.X), num(n.Y+12), EscapeXML(n.Summary(summaryRunes)))
	if !n.IsLeaf() {
		sign := "−"
		if collapsed {
			sign = "+"
		}
		tx, ty := x+w-10, y+12
		fmt.Fprintf(buf, `      <circle class="toggle-hit" cx="%s" cy="%s" r="9"/>`+"\n", num(tx), num(ty-4))
		fmt.Fprintf(buf, `      <text class="toggle" x="%s" y="%s" text-anchor="middle">%s</text>`+"\n", num(tx), num(ty), sign)
	}
	buf.WriteString("    </g>\n")
}

// ancestorsJSON encodes the root-first chain above key, excluding key.
func ancestorsJSON(t *tree.Tree, key string) string {
	chain := t.Ancestors(key)
	if len(chain) > 0 {
		chain = chain[:len(chain)-1]
	}
	if chain == nil {
		chain = []string{}
	}
	b, _ := json.Marshal(chain)
	return string(b)
}

// EscapeXML escapes text for inclusion in XML content or attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func num(f float64) string {
	return fmt.Sprintf("%g", round2(f))
}

func round2(f float64) float64 {
	if f < 0 {
		return -round2(-f)
	}
	return float64(int64(f*100+0.5)) / 100
}
