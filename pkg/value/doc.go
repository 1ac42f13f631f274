// Package value defines the JSON-compatible value model shared by every
// visualizeme stage.
//
// A [Value] is a pointer-identity node: edits replace the contents of the
// node at a path in place, so references held by tree nodes stay live
// across edits. Objects keep their members in insertion order, which is
// the order used for display and for every serialization.
//
// # Parsing and encoding
//
// [ParseJSON] is a strict, order-preserving decoder. Numbers keep their
// literal text so that "1.50" survives a round trip unchanged.
// [MarshalIndent] produces deterministic output equivalent to
// JSON.stringify(v, null, 2).
//
//	v, err := value.ParseJSON([]byte(`{"a":1,"b":[2,3]}`))
//	out := value.MarshalIndent(v, "  ")
//
// # Paths
//
// A [Path] locates a value inside a root. [Path.Key] is the canonical
// pathKey used as identity across rebuilds; the root uses the reserved
// [RootKey] sentinel, which no real path can produce.
package value
