// Package pipeline provides the import → layout → render pipeline shared by
// the CLI, the terminal explorer and the server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Import: Parse JSON or module text into a [document.Document]
//  2. Layout: Build the value tree, apply collapse state and search, and
//     compute node positions (a [view.Diagram])
//  3. Render: Generate output in the requested formats (SVG, PNG, PDF, DOT,
//     layout JSON, or a value export)
//
// Rendered artifacts are cached by the hash of the laid-out document plus
// every option that affects the bytes, so re-rendering an unchanged input
// is a cache lookup.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	doc, err := runner.Load(ctx, "site.ts", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, doc, pipeline.Options{Formats: []string{"svg"}})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/visualizeme/pkg/cache"
	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/layout"
	"github.com/matzehuels/visualizeme/pkg/render"
	"github.com/matzehuels/visualizeme/pkg/serialize"
	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/tree"
	"github.com/matzehuels/visualizeme/pkg/view"
)

// Format constants for output formats.
const (
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
	FormatDOT     = "dot"
	FormatLayout  = "layout"
	FormatJSON    = string(serialize.FormatJSON)
	FormatWrapped = string(serialize.FormatWrapped)
	FormatSource  = string(serialize.FormatSource)
	FormatYAML    = string(serialize.FormatYAML)
)

// Engine constants select the diagram renderer.
const (
	EngineNative   = "native"
	EngineGraphviz = "graphviz"
)

// Defaults.
const (
	DefaultEngine = EngineNative
	DefaultScale  = 2.0
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatPNG:     true,
	FormatPDF:     true,
	FormatDOT:     true,
	FormatLayout:  true,
	FormatJSON:    true,
	FormatWrapped: true,
	FormatSource:  true,
	FormatYAML:    true,
}

// ValidEngines is the set of supported engines.
var ValidEngines = map[string]bool{
	EngineNative:   true,
	EngineGraphviz: true,
}

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Import options
	Mode string `json:"mode,omitempty"` // empty infers from the filename

	// Layout options
	RootLabel     string         `json:"root_label,omitempty"`
	Layout        layout.Options `json:"layout,omitempty"`
	CollapseDepth int            `json:"collapse_depth,omitempty"` // 0 keeps every container expanded
	Collapsed     []string       `json:"collapsed,omitempty"`      // pathKeys to collapse
	Search        string         `json:"search,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Engine   string   `json:"engine,omitempty"`
	Theme    string   `json:"theme,omitempty"`
	Static   bool     `json:"static,omitempty"` // omit the embedded script
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	MinScale float64  `json:"min_scale,omitempty"`
	MaxScale float64  `json:"max_scale,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram holds the laid-out tree with collapse and search applied.
	Diagram *view.Diagram

	// DocumentHash is the content hash of the document's value.
	DocumentHash string

	// LayoutKey identifies the layout for artifact caching.
	LayoutKey string

	// Matches is the number of nodes matching opts.Search.
	Matches int

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	VisibleCount int
	Depth        int
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	Hits      int  // Artifacts served from cache
	RenderHit bool // Whether every cacheable artifact came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that an engine name is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid engine: %q (must be one of: native, graphviz)", engine)
	}
	return nil
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// IsExport reports whether format serializes the value rather than the diagram.
func IsExport(format string) bool {
	switch format {
	case FormatJSON, FormatWrapped, FormatSource, FormatYAML:
		return true
	}
	return false
}

// Extension returns the output file extension for format, including the dot.
func Extension(format string) string {
	switch format {
	case FormatLayout:
		return ".layout.json"
	case FormatSVG, FormatPNG, FormatPDF, FormatDOT:
		return "." + format
	}
	return serialize.Format(format).Extension()
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.RootLabel == "" {
		o.RootLabel = tree.DefaultRootLabel
	}
	o.Layout = o.Layout.WithDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Theme == "" {
		o.Theme = render.Light.Name
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks every option.
func (o *Options) Validate() error {
	o.SetDefaults()
	if o.Mode != "" {
		if _, err := source.ParseMode(o.Mode); err != nil {
			return err
		}
	}
	if err := o.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout")
	}
	if o.CollapseDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "collapse depth must not be negative")
	}
	if err := errors.ValidateSearchTerm(o.Search); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if _, err := render.ThemeByName(o.Theme); err != nil {
		return err
	}
	return nil
}

// ViewOptions returns the diagram options for these pipeline options.
func (o *Options) ViewOptions() view.Options {
	theme, err := render.ThemeByName(o.Theme)
	if err != nil {
		theme = render.Light
	}
	return view.Options{
		RootLabel: o.RootLabel,
		Layout:    o.Layout,
		Theme:     theme,
		MinScale:  o.MinScale,
		MaxScale:  o.MaxScale,
	}
}

// LayoutKeyOpts returns cache key options for a layout with collapse state c.
func (o *Options) LayoutKeyOpts(c layout.Collapse) cache.LayoutKeyOpts {
	keys := make([]string, 0, len(c))
	for k, on := range c {
		if on {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return cache.LayoutKeyOpts{
		RootLabel:         o.RootLabel,
		Collapsed:         keys,
		HorizontalSpacing: o.Layout.HorizontalSpacing,
		VerticalSpacing:   o.Layout.VerticalSpacing,
		NodeWidth:         o.Layout.NodeWidth,
		NodeHeight:        o.Layout.NodeHeight,
		Margin:            o.Layout.Margin,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Engine: o.Engine,
		Theme:  o.Theme,
		Search: o.Search,
	}
	switch format {
	case FormatSVG:
		k.Interactive = !o.Static && o.Engine == EngineNative
	case FormatPNG:
		k.Scale = o.Scale
	}
	if o.Engine == EngineGraphviz || format == FormatDOT {
		k.Detailed = o.Detailed
	}
	return k
}

// cacheable reports whether format output is stored in the artifact cache.
// Value exports are cheap and depend on metadata outside the layout key.
func cacheable(format string) bool {
	return !IsExport(format)
}
