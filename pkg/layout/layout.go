package layout

import (
	"math"

	"github.com/matzehuels/visualizeme/pkg/tree"
)

// Edge connects a visible parent to a visible child.
type Edge struct {
	From *tree.Node
	To   *tree.Node
}

// Bounds is the extent of all visible node boxes.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Layout is the result of one layout pass.
type Layout struct {
	Tree     *tree.Tree
	Nodes    []*tree.Node // visible nodes, pre-order
	Edges    []Edge
	Bounds   Bounds
	Options  Options
	Collapse Collapse
}

// Visible reports whether the node at key was laid out.
func (l *Layout) Visible(key string) bool {
	for _, n := range l.Nodes {
		if n.Key == key {
			return true
		}
	}
	return false
}

// Apply assigns positions to every visible node of t. Hidden nodes keep
// stale layout fields and are absent from the result. A nil tree yields
// an empty layout.
func Apply(t *tree.Tree, collapsed Collapse, opts Options) *Layout {
	opts = opts.WithDefaults()
	if collapsed == nil {
		collapsed = Collapse{}
	}
	l := &Layout{Tree: t, Options: opts, Collapse: collapsed}
	if t == nil {
		return l
	}

	measure(t.Root, collapsed)
	place(t.Root, 0, opts)

	l.Bounds = Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	l.collect(t.Root)
	return l
}

func measure(n *tree.Node, collapsed Collapse) float64 {
	n.VisibleChildren = nil
	if n.IsLeaf() || collapsed.IsCollapsed(n.Key) {
		n.Width = 1
		return 1
	}
	n.VisibleChildren = n.Children
	w := 0.0
	for _, c := range n.Children {
		w += measure(c, collapsed)
	}
	n.Width = w
	return w
}

// place positions n's subtree with its span starting at left (leaf units).
func place(n *tree.Node, left float64, opts Options) {
	n.Left = left * opts.HorizontalSpacing
	n.Y = float64(n.Depth) * opts.VerticalSpacing

	if len(n.VisibleChildren) == 0 {
		n.X = (left + n.Width/2) * opts.HorizontalSpacing
		return
	}
	cursor := left
	for _, c := range n.VisibleChildren {
		place(c, cursor, opts)
		cursor += c.Width
	}
	first, last := n.VisibleChildren[0], n.VisibleChildren[len(n.VisibleChildren)-1]
	n.X = (first.X + last.X) / 2
}

func (l *Layout) collect(n *tree.Node) {
	l.Nodes = append(l.Nodes, n)
	hw, hh := l.Options.NodeWidth/2, l.Options.NodeHeight/2
	l.Bounds.MinX = math.Min(l.Bounds.MinX, n.X-hw)
	l.Bounds.MaxX = math.Max(l.Bounds.MaxX, n.X+hw)
	l.Bounds.MinY = math.Min(l.Bounds.MinY, n.Y-hh)
	l.Bounds.MaxY = math.Max(l.Bounds.MaxY, n.Y+hh)
	for _, c := range n.VisibleChildren {
		l.Edges = append(l.Edges, Edge{From: n, To: c})
		l.collect(c)
	}
}

// ViewBox returns the diagram viewport: the bounds grown by the margin.
func (l *Layout) ViewBox() (x, y, w, h float64) {
	if len(l.Nodes) == 0 {
		return 0, 0, 2 * l.Options.Margin, 2 * l.Options.Margin
	}
	m := l.Options.Margin
	return l.Bounds.MinX - m, l.Bounds.MinY - m, l.Bounds.Width() + 2*m, l.Bounds.Height() + 2*m
}
