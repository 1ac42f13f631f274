package graph

import (
	"github.com/matzehuels/visualizeme/pkg/layout"
	"github.com/matzehuels/visualizeme/pkg/tree"
)

// summaryRunes bounds the scalar preview stored per node.
const summaryRunes = 48

// Layout is the serialized form of one layout pass.
type Layout struct {
	RootLabel string     `json:"root_label" bson:"root_label"`
	Width     float64    `json:"width" bson:"width"`
	Height    float64    `json:"height" bson:"height"`
	ViewBox   [4]float64 `json:"view_box" bson:"view_box"`
	Nodes     []Node     `json:"nodes" bson:"nodes"`
	Edges     []Edge     `json:"edges" bson:"edges"`
}

// Node is one visible, positioned node.
type Node struct {
	Key         string  `json:"key" bson:"key"`
	Label       string  `json:"label" bson:"label"`
	Path        string  `json:"path,omitempty" bson:"path,omitempty"`
	Type        string  `json:"type" bson:"type"`
	Summary     string  `json:"summary" bson:"summary"`
	Depth       int     `json:"depth" bson:"depth"`
	X           float64 `json:"x" bson:"x"`
	Y           float64 `json:"y" bson:"y"`
	Collapsed   bool    `json:"collapsed,omitempty" bson:"collapsed,omitempty"`
	HasChildren bool    `json:"has_children,omitempty" bson:"has_children,omitempty"`
}

// Edge connects two visible nodes by pathKey.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// FromLayout converts a computed layout into its serialized form.
func FromLayout(l *layout.Layout) Layout {
	out := Layout{Nodes: []Node{}, Edges: []Edge{}}
	if l.Tree != nil {
		out.RootLabel = l.Tree.RootLabel
	}
	x, y, w, h := l.ViewBox()
	out.ViewBox = [4]float64{x, y, w, h}
	out.Width, out.Height = w, h

	for _, n := range l.Nodes {
		out.Nodes = append(out.Nodes, nodeFromTree(n, l.Collapse))
	}
	for _, e := range l.Edges {
		out.Edges = append(out.Edges, Edge{From: e.From.Key, To: e.To.Key})
	}
	return out
}

func nodeFromTree(n *tree.Node, c layout.Collapse) Node {
	return Node{
		Key:         n.Key,
		Label:       n.Label,
		Path:        n.Path.String(),
		Type:        n.TypeName(),
		Summary:     n.Summary(summaryRunes),
		Depth:       n.Depth,
		X:           n.X,
		Y:           n.Y,
		Collapsed:   c.IsCollapsed(n.Key) && !n.IsLeaf(),
		HasChildren: !n.IsLeaf(),
	}
}

// Node returns the node with the given pathKey.
func (l *Layout) Node(key string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.Key == key {
			return n, true
		}
	}
	return Node{}, false
}
