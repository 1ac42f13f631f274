// Package view holds the interactive state of one diagram.
//
// A [Diagram] owns the Value it displays together with the derived tree,
// the collapse state, the hover chain, the open edit view, the search
// matches and the pan/zoom transform. Every mutation goes through a
// Diagram method, and structural changes (collapse toggles and committed
// edits) rebuild the layout before returning, so callers always observe a
// consistent build-layout-render cycle.
//
// Hosts that accept untyped input (the HTTP server, the WebSocket channel,
// the terminal explorer) translate it into the tagged [Event] variants and
// call [Diagram.Dispatch], which reports user mistakes in an [Outcome]
// instead of returning Go errors.
//
// A Diagram is not safe for concurrent use; hosts serialize access.
package view
