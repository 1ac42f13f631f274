// Package graph provides the serialization format for laid-out diagrams.
//
// This package defines the wire format used for the "layout" output
// format, the server's layout endpoint and cached layout artifacts. It
// sits at the boundary between the in-memory tree/layout types and
// external consumers:
//
//   - [Layout], [Node], [Edge]: serialization types (this package)
//   - pkg/tree.Tree: the display tree
//   - pkg/layout.Layout: positions computed for one collapse state
//
// Use [FromLayout] to export a computed layout.
//
// # Example
//
//	l := layout.Apply(tree.Build(v, "root"), nil, layout.Options{})
//	data, err := graph.MarshalLayout(graph.FromLayout(l))
//
// Nodes are identified by pathKey, so an exported layout can be matched
// against a later rebuild of the same value.
package graph
