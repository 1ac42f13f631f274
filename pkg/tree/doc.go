// Package tree projects a [value.Value] into a labeled display tree.
//
// # Overview
//
// [Build] walks a value recursively and produces one [Node] per value.
// Every node carries:
//
//   - ID: a fresh UUID, meaningful only within one build
//   - Label: the property key, the array index in brackets, or the root label
//   - Path and Key: the location inside the root value and its canonical
//     pathKey (see [value.Path.Key])
//   - Value: the live value at that path (a reference, not a copy)
//
// Children follow the value's own order: array index order, or object
// member insertion order.
//
// # Identity
//
// pathKeys are the identity that survives rebuilds. Building twice from an
// unchanged value yields the same keys (IDs differ). Collapse state,
// hover and selection are therefore all keyed by pathKey.
//
// # Index
//
// The tree indexes nodes by pathKey ([Tree.Node]) and keeps, for every
// node, the root-first chain of ancestor keys including the node itself
// ([Tree.Ancestors]); hover highlighting uses the chain directly.
//
// Layout fields on [Node] are owned by the layout package and recomputed
// on every pass.
package tree
