// Package nodelink renders laid-out value trees through Graphviz.
//
// # Overview
//
// This is the alternative engine behind --engine graphviz. Graphviz
// computes its own positions, so collapse state is honored (only visible
// nodes are emitted) but the native pan/zoom script is not embedded.
//
// # Usage
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes. Each node's id attribute carries its pathKey so the output
// can be correlated with the native renderer. Collapsed containers are
// drawn dashed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
