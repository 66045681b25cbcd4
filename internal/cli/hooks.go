package cli

import (
	"context"
	"time"

	"github.com/matzehuels/pqcgraph/pkg/observability"
)

// logHooks reports pipeline, cache and HTTP events through the logger
// attached to the event's context. It is installed in verbose mode only.
type logHooks struct{}

var (
	_ observability.PipelineHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
	_ observability.HTTPHooks     = logHooks{}
)

// installLogHooks registers logHooks for every hook registry.
func installLogHooks() {
	observability.SetPipelineHooks(logHooks{})
	observability.SetCacheHooks(logHooks{})
	observability.SetHTTPHooks(logHooks{})
}

func (logHooks) OnLoadStart(ctx context.Context, source string) {
	loggerFromContext(ctx).Debug("load start", "source", source)
}

func (logHooks) OnLoadComplete(ctx context.Context, source string, entities, relations int, d time.Duration, err error) {
	if err != nil {
		loggerFromContext(ctx).Debug("load failed", "source", source, "duration", d, "err", err)
		return
	}
	loggerFromContext(ctx).Debug("load done", "source", source, "entities", entities, "relations", relations, "duration", d)
}

func (logHooks) OnLayoutStart(ctx context.Context, nodeCount int) {
	loggerFromContext(ctx).Debug("layout start", "nodes", nodeCount)
}

func (logHooks) OnLayoutComplete(ctx context.Context, d time.Duration, err error) {
	loggerFromContext(ctx).Debug("layout done", "duration", d, "err", err)
}

func (logHooks) OnAnalysis(ctx context.Context, kind string, d time.Duration) {
	loggerFromContext(ctx).Debug("analysis", "kind", kind, "duration", d)
}

func (logHooks) OnRenderStart(ctx context.Context, format string) {
	loggerFromContext(ctx).Debug("render start", "format", format)
}

func (logHooks) OnRenderComplete(ctx context.Context, format string, d time.Duration, err error) {
	loggerFromContext(ctx).Debug("render done", "format", format, "duration", d, "err", err)
}

func (logHooks) OnCacheHit(ctx context.Context, keyType string) {
	loggerFromContext(ctx).Debug("cache hit", "type", keyType)
}

func (logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	loggerFromContext(ctx).Debug("cache miss", "type", keyType)
}

func (logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	loggerFromContext(ctx).Debug("cache set", "type", keyType, "bytes", size)
}

func (logHooks) OnRequest(ctx context.Context, method, host, path string) {
	loggerFromContext(ctx).Debug("http request", "method", method, "host", host, "path", path)
}

func (logHooks) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	loggerFromContext(ctx).Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (logHooks) OnError(ctx context.Context, method, host, path string, err error) {
	loggerFromContext(ctx).Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
