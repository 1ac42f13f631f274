package tree

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/matzehuels/visualizeme/pkg/value"
)

// DefaultRootLabel labels the root when Build is given an empty label.
const DefaultRootLabel = "root"

// Node is the display projection of one value at one path.
type Node struct {
	ID       string
	Label    string
	Path     value.Path
	Key      string
	Value    *value.Value
	Parent   *Node
	Children []*Node
	Depth    int

	// Derived by the layout package; not meaningful outside rendering.
	// Width is the subtree width in leaf units and Left the pixel offset
	// where the subtree's horizontal span starts.
	Width           float64
	Left            float64
	X               float64
	Y               float64
	VisibleChildren []*Node
}

// IsRoot reports whether n is the root node.
func (n *Node) IsRoot() bool { return n.Parent == nil }

// IsLeaf reports whether n has no children (scalars and empty containers).
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// TypeName returns the JSON type of the node's value.
func (n *Node) TypeName() string { return value.TypeName(n.Value) }

// Summary is the short value text drawn under the label: the JSON form of
// scalars, truncated to max runes, or a child count for containers.
func (n *Node) Summary(max int) string {
	switch n.Value.Kind {
	case value.Object:
		return plural(n.Value.Len(), "key", "{", "}")
	case value.Array:
		return plural(n.Value.Len(), "item", "[", "]")
	}
	return Truncate(string(value.Marshal(n.Value)), max)
}

func plural(n int, noun, open, close string) string {
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%s%d %s%s", open, n, noun, close)
}

// Truncate shortens s to at most max runes, marking the cut with an
// ellipsis. A non-positive max disables truncation.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

// Tree is a built display tree with its pathKey index.
// A Tree is not safe for concurrent use.
type Tree struct {
	Root      *Node
	RootLabel string

	nodes     map[string]*Node
	ancestors map[string][]string
	order     []*Node
	maxDepth  int
}

// Build projects root into a tree labeled with label.
// A nil root yields a nil tree.
func Build(root *value.Value, label string) *Tree {
	if root == nil {
		return nil
	}
	if label == "" {
		label = DefaultRootLabel
	}
	t := &Tree{
		RootLabel: label,
		nodes:     make(map[string]*Node),
		ancestors: make(map[string][]string),
	}
	t.Root = t.build(root, label, value.Path{}, nil, nil)
	return t
}

func (t *Tree) build(v *value.Value, label string, path value.Path, parent *Node, chain []string) *Node {
	key := path.Key()
	n := &Node{
		ID:     uuid.NewString(),
		Label:  label,
		Path:   path,
		Key:    key,
		Value:  v,
		Parent: parent,
		Depth:  len(path),
	}
	own := make([]string, len(chain)+1)
	copy(own, chain)
	own[len(chain)] = key

	t.nodes[key] = n
	t.ancestors[key] = own
	t.order = append(t.order, n)
	if n.Depth > t.maxDepth {
		t.maxDepth = n.Depth
	}

	switch v.Kind {
	case value.Array:
		n.Children = make([]*Node, 0, len(v.Items))
		for i, item := range v.Items {
			child := t.build(item, fmt.Sprintf("[%d]", i), path.Child(value.IndexSeg(i)), n, own)
			n.Children = append(n.Children, child)
		}
	case value.Object:
		n.Children = make([]*Node, 0, len(v.Members))
		for _, m := range v.Members {
			child := t.build(m.Value, m.Key, path.Child(value.KeySeg(m.Key)), n, own)
			n.Children = append(n.Children, child)
		}
	}
	return n
}

// Node returns the node with the given pathKey.
func (t *Tree) Node(key string) (*Node, bool) {
	if t == nil {
		return nil, false
	}
	n, ok := t.nodes[key]
	return n, ok
}

// Ancestors returns the root-first chain of pathKeys ending with key,
// or nil if key is not in the tree. The slice must not be modified.
func (t *Tree) Ancestors(key string) []string {
	if t == nil {
		return nil
	}
	return t.ancestors[key]
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Depth returns the depth of the deepest node (0 for a lone root).
func (t *Tree) Depth() int {
	if t == nil {
		return 0
	}
	return t.maxDepth
}

// Nodes returns every node in pre-order.
func (t *Tree) Nodes() []*Node {
	if t == nil {
		return nil
	}
	return t.order
}

// Walk visits nodes in pre-order. Returning false from fn skips the
// node's descendants.
func (t *Tree) Walk(fn func(*Node) bool) {
	if t == nil {
		return
	}
	walk(t.Root, fn)
}

func walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		walk(c, fn)
	}
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Nodes      int
	Leaves     int
	Containers int
	Depth      int
	Kinds      map[string]int
}

// Stats counts nodes by shape and type.
func (t *Tree) Stats() Stats {
	s := Stats{Kinds: make(map[string]int)}
	for _, n := range t.Nodes() {
		s.Nodes++
		s.Kinds[n.TypeName()]++
		if n.Value.IsContainer() {
			s.Containers++
		}
		if n.IsLeaf() {
			s.Leaves++
		}
	}
	s.Depth = t.Depth()
	return s
}
