package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug record. It implements all three
// hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks logs through l.
func NewLogHooks(l *log.Logger) *LogHooks { return &LogHooks{logger: l} }

func (h *LogHooks) OnDecodeStart(_ context.Context, source string) {
	h.logger.Debug("decode start", "source", source)
}

func (h *LogHooks) OnDecodeComplete(_ context.Context, source string, connections int, d time.Duration, err error) {
	h.done("decode", err, "source", source, "connections", connections, "took", d)
}

func (h *LogHooks) OnRouteStart(_ context.Context, rows, cols, connections int) {
	h.logger.Debug("route start", "rows", rows, "cols", cols, "connections", connections)
}

func (h *LogHooks) OnRouteComplete(_ context.Context, wires int, d time.Duration, err error) {
	h.done("route", err, "wires", wires, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", err, "formats", formats, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "took", d)
}

func (h *LogHooks) done(stage string, err error, kv ...any) {
	if err != nil {
		h.logger.Warn(stage+" failed", append(kv, "err", err)...)
		return
	}
	h.logger.Debug(stage+" done", kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
