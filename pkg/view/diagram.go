package view

import (
	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/layout"
	"github.com/matzehuels/visualizeme/pkg/render"
	"github.com/matzehuels/visualizeme/pkg/tree"
	"github.com/matzehuels/visualizeme/pkg/value"
)

// State is the coarse lifecycle state of a Diagram.
type State string

const (
	StateEmpty    State = "empty"
	StateRendered State = "rendered"
)

// Options configures a Diagram.
type Options struct {
	RootLabel string
	Layout    layout.Options
	Theme     render.Theme
	MinScale  float64
	MaxScale  float64
}

func (o Options) withDefaults() Options {
	if o.RootLabel == "" {
		o.RootLabel = tree.DefaultRootLabel
	}
	o.Layout = o.Layout.WithDefaults()
	if o.Theme.Name == "" {
		o.Theme = render.Light
	}
	if o.MinScale <= 0 || o.MaxScale < o.MinScale {
		o.MinScale, o.MaxScale = render.DefaultMinScale, render.DefaultMaxScale
	}
	return o
}

// EditView describes the node bound to the open editor.
type EditView struct {
	Key  string `json:"path"`
	Path string `json:"display"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// Diagram is the state machine behind one rendered value tree.
type Diagram struct {
	opts     Options
	tree     *tree.Tree
	layout   *layout.Layout
	collapse layout.Collapse
	hover    string
	edit     *EditView
	term     string
	matches  map[string]bool
	viewport viewport
}

// New returns an empty Diagram.
func New(opts Options) *Diagram {
	opts = opts.withDefaults()
	d := &Diagram{opts: opts, collapse: layout.Collapse{}}
	d.viewport = newViewport(opts.MinScale, opts.MaxScale)
	d.layout = layout.Apply(nil, d.collapse, opts.Layout)
	return d
}

// State reports whether a tree is present.
func (d *Diagram) State() State {
	if d.tree == nil {
		return StateEmpty
	}
	return StateRendered
}

// Options returns the effective options.
func (d *Diagram) Options() Options { return d.opts }

// Tree returns the current tree, or nil when empty.
func (d *Diagram) Tree() *tree.Tree { return d.tree }

// Layout returns the current layout. It is never nil.
func (d *Diagram) Layout() *layout.Layout { return d.layout }

// Value returns the displayed root Value, or nil when empty.
func (d *Diagram) Value() *value.Value {
	if d.tree == nil {
		return nil
	}
	return d.tree.Root.Value
}

// Collapse returns a copy of the collapse state.
func (d *Diagram) Collapse() layout.Collapse { return d.collapse.Clone() }

// Hovered returns the pathKey of the hovered node, or "".
func (d *Diagram) Hovered() string { return d.hover }

// Editing returns the open edit view, or nil.
func (d *Diagram) Editing() *EditView { return d.edit }

// SetTree replaces the displayed tree. A nil tree empties the diagram.
// Hover, selection, collapse state and the transform start fresh; an
// active search term is re-applied to the new tree.
func (d *Diagram) SetTree(t *tree.Tree) {
	d.tree = t
	d.collapse = layout.Collapse{}
	d.hover = ""
	d.edit = nil
	d.viewport.reset()
	d.relayout()
	d.applySearch()
}

// SetValue builds a tree from v with the configured root label and
// displays it. A nil v empties the diagram.
func (d *Diagram) SetValue(v *value.Value) {
	d.SetTree(tree.Build(v, d.opts.RootLabel))
}

// SetCollapse replaces the collapse state and re-lays out.
func (d *Diagram) SetCollapse(c layout.Collapse) {
	if c == nil {
		c = layout.Collapse{}
	}
	d.collapse = c.Clone()
	d.relayout()
	d.dropHiddenHover()
}

// ToggleCollapse flips the collapse flag of a container node and
// re-lays out. It returns the new flag.
func (d *Diagram) ToggleCollapse(key string) (bool, error) {
	n, err := d.node(key)
	if err != nil {
		return false, err
	}
	if n.IsLeaf() {
		return false, errors.New(errors.ErrCodeInvalidInput, "%s has no children to collapse", displayPath(n))
	}
	collapsed := d.collapse.Toggle(key)
	d.relayout()
	d.dropHiddenHover()
	return collapsed, nil
}

// Hover sets the hover chain to key and its ancestors. The empty key
// clears it. Hovering never re-lays out.
func (d *Diagram) Hover(key string) error {
	if key == "" {
		d.hover = ""
		return nil
	}
	if _, err := d.node(key); err != nil {
		return err
	}
	if !d.layout.Visible(key) {
		return errors.New(errors.ErrCodeNotFound, "node %s is not visible", key)
	}
	d.hover = key
	return nil
}

// HoverPath returns the root-first pathKeys of the hover chain.
func (d *Diagram) HoverPath() []string {
	if d.hover == "" {
		return nil
	}
	return d.tree.Ancestors(d.hover)
}

// Select opens the edit view on key. The empty key closes it.
func (d *Diagram) Select(key string) (*EditView, error) {
	if key == "" {
		d.edit = nil
		return nil, nil
	}
	n, err := d.node(key)
	if err != nil {
		return nil, err
	}
	d.edit = editView(n)
	return d.edit, nil
}

// CommitEdit replaces the Value at key with text parsed as JSON. Text that
// is not valid JSON is stored as a raw string, unless the target is an
// object or array, in which case the edit is rejected with INVALID_EDIT.
// On failure the model is unchanged. On success the tree is rebuilt,
// collapse entries below key are pruned and the edit view is re-opened on
// its node if that node still exists.
func (d *Diagram) CommitEdit(key, text string) error {
	n, err := d.node(key)
	if err != nil {
		return err
	}
	target, err := value.Get(d.tree.Root.Value, n.Path)
	if err != nil {
		return err
	}

	nv, perr := value.ParseJSON([]byte(text))
	if perr != nil {
		if target.IsContainer() {
			return errors.Wrap(errors.ErrCodeInvalidEdit, perr,
				"%s holds %s, so the new value must be valid JSON", displayPath(n), target.Kind)
		}
		nv = value.NewString(text)
	}

	*target = *nv
	d.collapse.Prune(key)
	d.rebuild()
	return nil
}

// Render draws the current state as SVG.
func (d *Diagram) Render(extra ...render.SVGOption) []byte {
	opts := []render.SVGOption{
		render.WithTheme(d.opts.Theme),
		render.WithTransform(d.viewport.applied),
		render.WithZoomLimits(d.opts.MinScale, d.opts.MaxScale),
		render.WithMatches(d.matches),
		render.WithHover(d.hover),
		render.WithTitle(d.opts.RootLabel),
	}
	if d.edit != nil {
		opts = append(opts, render.WithSelected(d.edit.Key))
	}
	return render.RenderSVG(d.layout, append(opts, extra...)...)
}

func (d *Diagram) node(key string) (*tree.Node, error) {
	if d.tree == nil {
		return nil, errors.New(errors.ErrCodeEmptyDocument, "no document loaded")
	}
	n, ok := d.tree.Node(key)
	if !ok {
		return nil, errors.New(errors.ErrCodePathNotFound, "path %s does not exist", key)
	}
	return n, nil
}

func (d *Diagram) relayout() {
	d.layout = layout.Apply(d.tree, d.collapse, d.opts.Layout)
}

// rebuild re-derives the tree from the current root Value and restores
// view state that still refers to existing nodes.
func (d *Diagram) rebuild() {
	root := d.tree.Root.Value
	d.tree = tree.Build(root, d.opts.RootLabel)
	d.relayout()
	d.applySearch()
	d.dropHiddenHover()
	if d.edit != nil {
		if n, ok := d.tree.Node(d.edit.Key); ok {
			d.edit = editView(n)
		} else {
			d.edit = nil
		}
	}
}

func (d *Diagram) dropHiddenHover() {
	if d.hover != "" && !d.layout.Visible(d.hover) {
		d.hover = ""
	}
}

func editView(n *tree.Node) *EditView {
	return &EditView{
		Key:  n.Key,
		Path: displayPath(n),
		Type: n.TypeName(),
		Text: string(value.MarshalIndent(n.Value, "  ")),
	}
}

func displayPath(n *tree.Node) string {
	if n.IsRoot() {
		return n.Label
	}
	return n.Path.String()
}
