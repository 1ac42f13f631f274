// Package observability lets a program observe imports, layouts, renders,
// cache traffic, view events and HTTP requests without the libraries
// depending on a metrics or tracing backend.
//
// Each event category has a hook interface with a no-op default. main
// registers implementations once at startup, and library code reads the
// current hooks at each call site:
//
//	observability.UseLogger(logger)
//
//	hooks := observability.Pipeline()
//	hooks.OnImportStart(ctx, mode, name)
//	hooks.OnImportComplete(ctx, mode, name, nodeCount, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the visualization pipeline.
type PipelineHooks interface {
	// Import events
	OnImportStart(ctx context.Context, mode, name string)
	OnImportComplete(ctx context.Context, mode, name string, nodeCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, engine string, nodeCount int)
	OnLayoutComplete(ctx context.Context, engine string, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// InteractionHooks receives events from diagram views.
type InteractionHooks interface {
	// OnEvent records one applied view event. err is the user-facing
	// failure, if any; a rejected edit is not a system error.
	OnEvent(ctx context.Context, kind string, duration time.Duration, err error)

	// OnRebuild records a full build-layout cycle after a structural change.
	OnRebuild(ctx context.Context, nodeCount int, duration time.Duration)
}

// ServerHooks receives events from the HTTP server.
type ServerHooks interface {
	// OnRequest records a served request once the response is written.
	OnRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnSocket records a WebSocket connection opening (delta 1) or closing (-1).
	OnSocket(ctx context.Context, documentID string, delta int)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnImportStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnImportComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                       {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopInteractionHooks is a no-op implementation of InteractionHooks.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnEvent(context.Context, string, time.Duration, error) {}
func (NoopInteractionHooks) OnRebuild(context.Context, int, time.Duration)         {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}
func (NoopServerHooks) OnSocket(context.Context, string, int)                         {}

type registry struct {
	mu          sync.RWMutex
	pipeline    PipelineHooks
	cache       CacheHooks
	interaction InteractionHooks
	server      ServerHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{
		pipeline:    NoopPipelineHooks{},
		cache:       NoopCacheHooks{},
		interaction: NoopInteractionHooks{},
		server:      NoopServerHooks{},
	}
}

// set stores h in *slot under the registry lock. A nil h is ignored.
func set[T any](slot *T, h T) {
	if any(h) == nil {
		return
	}
	hooks.mu.Lock()
	*slot = h
	hooks.mu.Unlock()
}

func get[T any](slot *T) T {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return *slot
}

// SetPipelineHooks registers pipeline hooks. Call it before the first
// import.
func SetPipelineHooks(h PipelineHooks) { set(&hooks.pipeline, h) }

// SetCacheHooks registers cache hooks.
func SetCacheHooks(h CacheHooks) { set(&hooks.cache, h) }

// SetInteractionHooks registers view event hooks.
func SetInteractionHooks(h InteractionHooks) { set(&hooks.interaction, h) }

// SetServerHooks registers HTTP server hooks.
func SetServerHooks(h ServerHooks) { set(&hooks.server, h) }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return get(&hooks.pipeline) }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return get(&hooks.cache) }

// Interaction returns the registered view event hooks.
func Interaction() InteractionHooks { return get(&hooks.interaction) }

// Server returns the registered HTTP server hooks.
func Server() ServerHooks { return get(&hooks.server) }

// Reset restores the no-op hooks.
func Reset() {
	fresh := newRegistry()
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.pipeline = fresh.pipeline
	hooks.cache = fresh.cache
	hooks.interaction = fresh.interaction
	hooks.server = fresh.server
}
