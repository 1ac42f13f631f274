package pipeline

import (
	"context"
	"fmt"
	stdio "io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/visualizeme/pkg/cache"
	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/httputil"
	"github.com/matzehuels/visualizeme/pkg/io"
	"github.com/matzehuels/visualizeme/pkg/observability"
	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/view"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different documents.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Parser *source.Parser

	// Fetcher downloads http(s) inputs.
	Fetcher *httputil.Fetcher
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(stdio.Discard)
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Parser:  source.NewParser(nil),
		Fetcher: newFetcher(),
	}
}

// Execute runs the layout → render pipeline over doc with caching.
func (r *Runner) Execute(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Layout
	layoutStart := time.Now()
	d, matches, err := GenerateLayout(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Diagram = d
	result.Matches = matches
	result.DocumentHash = DocumentHash(doc)
	result.LayoutKey = r.Keyer.LayoutKey(result.DocumentHash, opts.LayoutKeyOpts(d.Collapse()))
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = d.Tree().Len()
	result.Stats.VisibleCount = len(d.Layout().Nodes)
	result.Stats.Depth = d.Tree().Depth()

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"visible", result.Stats.VisibleCount,
		"duration", result.Stats.LayoutTime)
	if opts.Search != "" {
		r.Logger.Info("search", "term", opts.Search, "matches", matches)
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, info, err := r.RenderWithCacheInfo(ctx, doc, d, result.LayoutKey, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", info.Hits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo renders every requested format, serving cacheable
// formats from the cache when present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *document.Document, d *view.Diagram, layoutKey string, opts Options) (map[string][]byte, CacheInfo, error) {
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var info CacheInfo
	artifacts := make(map[string][]byte, len(opts.Formats))
	misses := 0
	for _, format := range opts.Formats {
		if !cacheable(format) {
			data, err := Render(ctx, doc, d, opts, format)
			if err != nil {
				hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
				return nil, info, fmt.Errorf("render %s: %w", format, err)
			}
			artifacts[format] = data
			continue
		}

		key := r.Keyer.ArtifactKey(layoutKey, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				info.Hits++
				continue
			}
		}
		cacheHooks.OnCacheMiss(ctx, "artifact")
		misses++

		data, err := Render(ctx, doc, d, opts, format)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, info, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, ttlFor(format)); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	info.RenderHit = info.Hits > 0 && misses == 0

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, info, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func ttlFor(format string) time.Duration {
	if format == FormatLayout {
		return cache.TTLLayout
	}
	return cache.TTLArtifact
}

func hashBytes(b []byte) string { return cache.Hash(b) }

func newFetcher() *httputil.Fetcher {
	f := httputil.NewFetcher()
	f.MaxBytes = io.MaxInputSize
	return f
}
