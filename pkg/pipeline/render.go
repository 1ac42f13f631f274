package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/graph"
	"github.com/matzehuels/visualizeme/pkg/render"
	"github.com/matzehuels/visualizeme/pkg/render/nodelink"
	"github.com/matzehuels/visualizeme/pkg/serialize"
	"github.com/matzehuels/visualizeme/pkg/view"
)

// Render generates one artifact from a laid-out diagram.
func Render(ctx context.Context, doc *document.Document, d *view.Diagram, opts Options, format string) ([]byte, error) {
	if IsExport(format) {
		return doc.Export(serialize.Format(format), time.Now())
	}

	l := d.Layout()
	if opts.Engine == EngineGraphviz {
		dot := nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed})
		switch format {
		case FormatSVG:
			return nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			return nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			return nodelink.RenderPDF(ctx, dot)
		}
	}

	switch format {
	case FormatSVG:
		return d.Render(render.WithInteractive(!opts.Static)), nil
	case FormatPNG:
		return render.ToPNG(ctx, d.Render(render.WithInteractive(false)), opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, d.Render(render.WithInteractive(false)))
	case FormatDOT:
		return []byte(nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed})), nil
	case FormatLayout:
		return graph.MarshalLayout(graph.FromLayout(l))
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// RenderAll generates every requested format without caching.
func RenderAll(ctx context.Context, doc *document.Document, d *view.Diagram, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := Render(ctx, doc, d, opts, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
