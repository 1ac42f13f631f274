package view

import (
	"strings"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/tree"
	"github.com/matzehuels/visualizeme/pkg/value"
)

// Search marks nodes matching term and returns the match count. The
// empty term clears the search. Matching never changes the layout.
func (d *Diagram) Search(term string) (int, error) {
	if err := errors.ValidateSearchTerm(term); err != nil {
		return 0, err
	}
	d.term = term
	d.applySearch()
	return len(d.matches), nil
}

// SearchTerm returns the active search term.
func (d *Diagram) SearchTerm() string { return d.term }

// Matches returns the matched pathKeys in pre-order.
func (d *Diagram) Matches() []string {
	if len(d.matches) == 0 {
		return nil
	}
	var keys []string
	for _, n := range d.tree.Nodes() {
		if d.matches[n.Key] {
			keys = append(keys, n.Key)
		}
	}
	return keys
}

// IsMatch reports whether the node at key is matched.
func (d *Diagram) IsMatch(key string) bool { return d.matches[key] }

func (d *Diagram) applySearch() {
	d.matches = nil
	if d.tree == nil || d.term == "" {
		return
	}
	needle := strings.ToLower(d.term)
	d.matches = map[string]bool{}
	for _, n := range d.tree.Nodes() {
		if matches(n, needle) {
			d.matches[n.Key] = true
		}
	}
}

// matches tests the node's own label, type and display path. Scalars are
// also tested by their serialized value; containers are not, so a match
// deep in the tree does not mark every enclosing container.
func matches(n *tree.Node, needle string) bool {
	fields := []string{n.Label, n.TypeName(), n.Path.String()}
	if !n.Value.IsContainer() {
		fields = append(fields, string(value.Marshal(n.Value)))
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
