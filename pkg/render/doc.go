// Package render draws laid-out value trees.
//
// # Overview
//
// [RenderSVG] produces a self-contained SVG document: styles and the
// interaction script are embedded, so the file renders standalone with no
// external stylesheet. Each node group carries:
//
//   - data-path: the node's pathKey
//   - data-ancestors: a JSON array of the root-first ancestor chain
//   - classes node, matched, ancestor-of-match, hovered, hover-path,
//     collapsed and selected, reflecting the view state it was rendered with
//
// Edges carry data-from and data-to pathKeys.
//
// The embedded script implements the visual-only interactions: drag to
// pan, wheel zoom anchored at the pointer and clamped to the configured
// scale range, and hover-path highlighting of a node, its ancestors and
// the edges between them. Transform writes are coalesced to one per
// animation frame. Clicks are reported as visualizeme:select and
// visualizeme:toggle DOM events for the hosting page.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert
// tool (from librsvg).
//
//	svg := render.RenderSVG(l, render.WithTheme(render.Dark))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// # Node-Link via Graphviz
//
// The [nodelink] subpackage renders the same layout through Graphviz as
// an alternative engine.
//
// [nodelink]: github.com/matzehuels/visualizeme/pkg/render/nodelink
package render
