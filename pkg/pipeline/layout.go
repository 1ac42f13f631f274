package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/layout"
	"github.com/matzehuels/visualizeme/pkg/observability"
	"github.com/matzehuels/visualizeme/pkg/tree"
	"github.com/matzehuels/visualizeme/pkg/value"
	"github.com/matzehuels/visualizeme/pkg/view"
)

// GenerateLayout builds the document's tree, applies collapse state and
// search, and lays it out.
func GenerateLayout(ctx context.Context, doc *document.Document, opts Options) (*view.Diagram, int, error) {
	if doc == nil || doc.Empty() {
		return nil, 0, errors.New(errors.ErrCodeEmptyDocument, "nothing to lay out")
	}
	hooks := observability.Pipeline()
	start := time.Now()

	d := view.New(opts.ViewOptions())
	d.SetValue(doc.Value)
	hooks.OnLayoutStart(ctx, opts.Engine, d.Tree().Len())

	d.SetCollapse(collapseFor(d.Tree(), opts))
	matches := 0
	var err error
	if opts.Search != "" {
		matches, err = d.Search(opts.Search)
	}
	hooks.OnLayoutComplete(ctx, opts.Engine, time.Since(start), err)
	if err != nil {
		return nil, 0, err
	}
	return d, matches, nil
}

// collapseFor combines depth-based and explicit collapse state. Unknown
// or leaf keys are ignored.
func collapseFor(t *tree.Tree, opts Options) layout.Collapse {
	c := layout.Collapse{}
	if opts.CollapseDepth > 0 {
		c = layout.CollapseBelow(t, opts.CollapseDepth)
	}
	for _, key := range opts.Collapsed {
		if n, ok := t.Node(key); ok && !n.IsLeaf() {
			c.Set(key, true)
		}
	}
	return c
}

// DocumentHash is the content hash of doc's value.
func DocumentHash(doc *document.Document) string {
	return hashBytes(value.Marshal(doc.Value))
}

func countNodes(doc *document.Document) int {
	if doc.Empty() {
		return 0
	}
	return tree.Build(doc.Value, tree.DefaultRootLabel).Len()
}
