package view

import (
	"math"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/render"
)

// viewport holds the applied transform plus pending pan/zoom input that
// has not been written yet. Input accumulates between frames and Flush
// writes it at most once per frame.
type viewport struct {
	applied  render.Transform
	pending  render.Transform
	dirty    bool
	minScale float64
	maxScale float64
}

func newViewport(min, max float64) viewport {
	return viewport{applied: render.Identity, pending: render.Identity, minScale: min, maxScale: max}
}

func (v *viewport) reset() {
	v.applied, v.pending, v.dirty = render.Identity, render.Identity, false
}

func (v *viewport) clamp(s float64) float64 {
	return math.Min(v.maxScale, math.Max(v.minScale, s))
}

// Pan translates the pending transform by (dx, dy) screen units.
// Panning never touches the Value or the tree.
func (d *Diagram) Pan(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	d.viewport.pending.X += dx
	d.viewport.pending.Y += dy
	d.viewport.dirty = true
}

// ZoomAt multiplies the pending scale by factor, clamped to the zoom
// limits, keeping the point (px, py) stationary on screen.
func (d *Diagram) ZoomAt(factor, px, py float64) error {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "zoom factor must be positive, got %v", factor)
	}
	vp := &d.viewport
	t := vp.pending
	k := vp.clamp(t.Scale * factor)
	if k == t.Scale {
		return nil
	}
	r := k / t.Scale
	vp.pending = render.Transform{
		X:     px - (px-t.X)*r,
		Y:     py - (py-t.Y)*r,
		Scale: k,
	}
	vp.dirty = true
	return nil
}

// ResetView discards pan and zoom.
func (d *Diagram) ResetView() {
	d.viewport.pending = render.Identity
	d.viewport.dirty = d.viewport.applied != render.Identity
}

// Flush applies pending pan/zoom input and reports whether the applied
// transform changed. Hosts call it once per frame.
func (d *Diagram) Flush() (render.Transform, bool) {
	vp := &d.viewport
	if !vp.dirty {
		return vp.applied, false
	}
	vp.dirty = false
	changed := vp.applied != vp.pending
	vp.applied = vp.pending
	return vp.applied, changed
}

// Transform returns the applied transform.
func (d *Diagram) Transform() render.Transform { return d.viewport.applied }

// PendingTransform returns the transform the next Flush will apply.
func (d *Diagram) PendingTransform() render.Transform { return d.viewport.pending }
