// Package layout positions a display tree as a top-down node-link diagram.
//
// # Algorithm
//
// [Apply] runs two passes over the visible part of a [tree.Tree]:
//
//  1. Bottom-up measurement: a node's width is the sum of its visible
//     children's widths. Leaves and collapsed nodes have width 1.
//  2. Top-down placement: children are laid out side by side, each taking
//     a span proportional to its width, starting at the parent's span.
//     A parent's x is the midpoint of its first and last visible child's
//     x, or the center of its own span when it has no visible children.
//
// y is depth × VerticalSpacing. Sibling spans are adjacent and never
// overlap, so subtrees never overlap horizontally.
//
// # Collapse
//
// [Collapse] maps pathKeys to a collapsed flag. A collapsed node is laid
// out as a width-1 leaf and its descendants are not visible. Collapsing a
// node shifts the nodes drawn to its right and its ancestors; nodes to its
// left and every y coordinate are unaffected.
package layout
