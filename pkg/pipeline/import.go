package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/httputil"
	"github.com/matzehuels/visualizeme/pkg/io"
	"github.com/matzehuels/visualizeme/pkg/observability"
	"github.com/matzehuels/visualizeme/pkg/source"
)

// Import parses text into doc, firing import hooks. On failure doc keeps
// its previous content.
func (r *Runner) Import(ctx context.Context, doc *document.Document, name, text string, mode source.Mode) error {
	hooks := observability.Pipeline()
	hooks.OnImportStart(ctx, string(mode), name)
	start := time.Now()

	err := doc.Import(name, text, mode)
	nodes := 0
	if err == nil {
		nodes = countNodes(doc)
	}
	hooks.OnImportComplete(ctx, string(mode), name, nodes, time.Since(start), err)
	if err != nil {
		r.Logger.Debug("import failed", "name", name, "mode", mode, "error", err)
		return err
	}
	r.Logger.Info("imported document",
		"name", name,
		"mode", mode,
		"exports", exportCount(doc),
		"duration", time.Since(start))
	return nil
}

// Load reads path into a new document. Paths may be local files, "-" for
// stdin, or http(s) URLs. opts.Mode selects the parse mode; when empty it
// is inferred from the file extension.
func (r *Runner) Load(ctx context.Context, path string, opts Options) (*document.Document, error) {
	mode := source.ModeForFilename(path)
	if opts.Mode != "" {
		m, err := source.ParseMode(opts.Mode)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	if mode == source.ModeSourceLiteral {
		if err := r.Parser.Engine.Available(); err != nil {
			return nil, err
		}
	}
	text, err := r.readInput(ctx, path)
	if err != nil {
		return nil, err
	}
	doc := document.New(r.Parser)
	if err := r.Import(ctx, doc, path, string(text), mode); err != nil {
		return nil, err
	}
	return doc, nil
}

func exportCount(doc *document.Document) int {
	if doc.Metadata == nil {
		return 0
	}
	return len(doc.Metadata.Entries)
}

func (r *Runner) readInput(ctx context.Context, path string) ([]byte, error) {
	if !httputil.IsURL(path) {
		return io.ReadFile(path)
	}
	f := r.Fetcher
	if f == nil {
		f = newFetcher()
	}
	r.Logger.Debug("fetching document", "url", path)
	return f.Fetch(ctx, path)
}
