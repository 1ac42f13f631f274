package layout

import (
	"github.com/matzehuels/visualizeme/pkg/tree"
	"github.com/matzehuels/visualizeme/pkg/value"
)

// Collapse records which nodes are collapsed, keyed by pathKey.
// Missing entries mean expanded, including for the root.
type Collapse map[string]bool

// IsCollapsed reports whether the node at key is collapsed.
func (c Collapse) IsCollapsed(key string) bool { return c[key] }

// Toggle flips the node at key and returns its new state.
func (c Collapse) Toggle(key string) bool {
	if c[key] {
		delete(c, key)
		return false
	}
	c[key] = true
	return true
}

// Set marks the node at key collapsed or expanded.
func (c Collapse) Set(key string, collapsed bool) {
	if collapsed {
		c[key] = true
	} else {
		delete(c, key)
	}
}

// Prune removes the entries of every strict descendant of the node at
// key and returns how many were removed. It is called after the value at
// key is replaced, since the old descendants' paths may no longer exist.
func (c Collapse) Prune(key string) int {
	prefix, err := value.ParseKey(key)
	if err != nil {
		return 0
	}
	removed := 0
	for k := range c {
		p, err := value.ParseKey(k)
		if err != nil || (len(p) > len(prefix) && p.HasPrefix(prefix)) {
			delete(c, k)
			removed++
		}
	}
	return removed
}

// Clone returns an independent copy.
func (c Collapse) Clone() Collapse {
	out := make(Collapse, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// CollapseBelow collapses every container at depth >= depth, leaving
// the upper levels expanded. A negative depth collapses nothing.
func CollapseBelow(t *tree.Tree, depth int) Collapse {
	c := Collapse{}
	if depth < 0 {
		return c
	}
	t.Walk(func(n *tree.Node) bool {
		if n.Depth >= depth && !n.IsLeaf() {
			c[n.Key] = true
			return false
		}
		return true
	})
	return c
}
