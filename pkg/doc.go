// Package pkg provides the libraries behind visualizeme, which draws JSON
// documents and the exported literals of TypeScript modules as interactive
// node-link trees.
//
// # Overview
//
// A document flows through these packages:
//
//	JSON text / .ts module / http(s) URL
//	         ↓
//	    [source] (parse JSON, or extract exported literals plus metadata)
//	         ↓
//	    [value] + [tree] (ordered value model, one node per value)
//	         ↓
//	    [layout] (collapse state, tidy-tree coordinates)
//	         ↓
//	    [view] (hover, search, selection, pan/zoom, edits)
//	         ↓
//	    [render] (interactive SVG, PNG/PDF, Graphviz)
//	         ↓
//	    [serialize] (JSON, wrapped JSON, regenerated module, YAML)
//
// [document] ties a value to its source metadata, and [pipeline]
// orchestrates import, layout and render with caching through [cache].
// [store] persists document snapshots for the HTTP server.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	doc, err := runner.Load(ctx, "site.ts", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	opts := pipeline.Options{Formats: []string{"svg"}}
//	opts.SetDefaults()
//	res, err := runner.Execute(ctx, doc, opts)
//	svg := res.Artifacts["svg"]
//
// Edits go through the diagram so the tree, layout and value stay in step:
//
//	d, _, _ := pipeline.GenerateLayout(ctx, doc, opts)
//	out := d.Dispatch(ctx, view.CommitEvent{Path: `["title"]`, Text: `"Home"`})
//	doc.SetValue(d.Value())
//	ts, _ := doc.Export(serialize.FormatSource, time.Now())
//
// # Supporting Packages
//
//   - [config]: TOML settings with .env and environment overrides
//   - [errors]: coded errors shared by the CLI and the HTTP API
//   - [graph]: the serialized layout format
//   - [httputil]: remote document fetching with retries
//   - [io]: bounded reads and atomic writes
//   - [observability]: import, layout and render hooks
//   - [buildinfo]: version metadata
//
// [document]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/document
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/errors
// [graph]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/graph
// [httputil]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/httputil
// [io]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/buildinfo
//
// [source]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/source
// [value]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/value
// [tree]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/tree
// [layout]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/layout
// [view]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/view
// [render]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/render
// [serialize]: https://pkg.go.dev/github.com/matzehuels/visualizeme/pkg/serialize
package pkg
