package observability

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline, cache and view events to a logger at debug
// level. Failures are logged as warnings.
type LogHooks struct {
	Logger *log.Logger
}

// UseLogger registers LogHooks over l for pipeline, cache and view
// events. Server requests are already logged by the server itself.
func UseLogger(l *log.Logger) {
	h := &LogHooks{Logger: l}
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetInteractionHooks(h)
}

func (h *LogHooks) done(op string, err error, kv ...any) {
	if err != nil {
		h.Logger.Warn(op+" failed", append(kv, "error", err)...)
		return
	}
	h.Logger.Debug(op+" done", kv...)
}

func (h *LogHooks) OnImportStart(_ context.Context, mode, name string) {
	h.Logger.Debug("import", "mode", mode, "name", name)
}

func (h *LogHooks) OnImportComplete(_ context.Context, mode, name string, nodes int, d time.Duration, err error) {
	h.done("import", err, "name", name, "mode", mode, "nodes", nodes, "took", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, engine string, nodes int) {
	h.Logger.Debug("layout", "engine", engine, "nodes", nodes)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, engine string, d time.Duration, err error) {
	h.done("layout", err, "engine", engine, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render", "formats", strings.Join(formats, ","))
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", err, "formats", strings.Join(formats, ","), "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "key", keyType, "bytes", size)
}

// OnEvent logs rejected events at debug level too; a bad edit is the
// user's mistake, not a fault.
func (h *LogHooks) OnEvent(_ context.Context, kind string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("event rejected", "kind", kind, "reason", err)
		return
	}
	h.Logger.Debug("event", "kind", kind, "took", d)
}

func (h *LogHooks) OnRebuild(_ context.Context, nodes int, d time.Duration) {
	h.Logger.Debug("rebuilt tree", "nodes", nodes, "took", d)
}
