package layout

import "fmt"

// Default spacing and node box dimensions, in SVG user units.
const (
	DefaultHorizontalSpacing = 160
	DefaultVerticalSpacing   = 110
	DefaultNodeWidth         = 140
	DefaultNodeHeight        = 44
	DefaultMargin            = 40
)

// Options controls spacing and node box size.
type Options struct {
	HorizontalSpacing float64 `toml:"horizontal_spacing" json:"horizontal_spacing"`
	VerticalSpacing   float64 `toml:"vertical_spacing" json:"vertical_spacing"`
	NodeWidth         float64 `toml:"node_width" json:"node_width"`
	NodeHeight        float64 `toml:"node_height" json:"node_height"`
	Margin            float64 `toml:"margin" json:"margin"`
}

// DefaultOptions returns the standard spacing.
func DefaultOptions() Options {
	return Options{
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
		NodeWidth:         DefaultNodeWidth,
		NodeHeight:        DefaultNodeHeight,
		Margin:            DefaultMargin,
	}
}

// WithDefaults returns o with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.HorizontalSpacing == 0 {
		o.HorizontalSpacing = d.HorizontalSpacing
	}
	if o.VerticalSpacing == 0 {
		o.VerticalSpacing = d.VerticalSpacing
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = d.NodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = d.NodeHeight
	}
	if o.Margin == 0 {
		o.Margin = d.Margin
	}
	return o
}

// Validate rejects negative sizes and boxes wider than their spacing.
func (o Options) Validate() error {
	if o.HorizontalSpacing < 0 || o.VerticalSpacing < 0 || o.NodeWidth < 0 || o.NodeHeight < 0 || o.Margin < 0 {
		return fmt.Errorf("layout sizes must not be negative")
	}
	if o.NodeWidth > o.HorizontalSpacing {
		return fmt.Errorf("node width %.0f exceeds horizontal spacing %.0f", o.NodeWidth, o.HorizontalSpacing)
	}
	if o.NodeHeight > o.VerticalSpacing {
		return fmt.Errorf("node height %.0f exceeds vertical spacing %.0f", o.NodeHeight, o.VerticalSpacing)
	}
	return nil
}
