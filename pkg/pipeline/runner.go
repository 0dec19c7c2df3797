package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/gridwire/pkg/cache"
	"github.com/matzehuels/gridwire/pkg/observability"
	"github.com/matzehuels/gridwire/pkg/poster"
	"github.com/matzehuels/gridwire/pkg/sheet"
)

// Runner executes pipelines against a shared cache. It keeps no per-run
// state, so one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// selects the DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs decode → route → render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Decode
	decodeStart := time.Now()
	s, err := r.Decode(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	result.Sheet = s
	result.SheetHash = s.Hash()
	result.Stats.DecodeTime = time.Since(decodeStart)
	result.Stats.Connections = len(s.Connections)

	logger.Info("decoded sheet",
		"connections", result.Stats.Connections,
		"duration", result.Stats.DecodeTime)

	// Stage 2: Route
	routeStart := time.Now()
	doc, layoutHit, err := r.RouteWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}
	result.Document = doc
	result.Stats.RouteTime = time.Since(routeStart)
	result.Stats.Wires = len(doc.Wires)
	result.Stats.Rows, result.Stats.Cols = doc.Rows, doc.Cols
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("routed poster",
		"grid", fmt.Sprintf("%dx%d", doc.Rows, doc.Cols),
		"wires", len(doc.Wires),
		"cached", layoutHit,
		"duration", result.Stats.RouteTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, layoutHash, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.LayoutHash = layoutHash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Decode returns the inline sheet or reads SheetPath.
func (r *Runner) Decode(ctx context.Context, opts Options) (s *sheet.Sheet, err error) {
	source := opts.SheetPath
	if opts.Sheet != nil {
		source = "inline"
	}
	hooks := observability.Pipeline()
	hooks.OnDecodeStart(ctx, source)
	start := time.Now()
	defer func() {
		n := 0
		if s != nil {
			n = len(s.Connections)
		}
		hooks.OnDecodeComplete(ctx, source, n, time.Since(start), err)
	}()

	if opts.Sheet != nil {
		return opts.Sheet, opts.Sheet.Validate()
	}
	return sheet.ReadFile(opts.SheetPath)
}

// RouteWithCacheInfo routes a sheet, consulting the layout cache first.
func (r *Runner) RouteWithCacheInfo(ctx context.Context, s *sheet.Sheet, opts Options) (poster.Document, bool, error) {
	if err := opts.SetDefaults(); err != nil {
		return poster.Document{}, false, err
	}
	key := r.Keyer.LayoutKey(s.Hash(), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := poster.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return doc, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	rows, cols := s.Size()
	hooks := observability.Pipeline()
	hooks.OnRouteStart(ctx, rows, cols, len(s.Connections))
	start := time.Now()
	doc, err := Route(s, opts.Config)
	hooks.OnRouteComplete(ctx, len(doc.Wires), time.Since(start), err)
	if err != nil {
		return poster.Document{}, false, err
	}

	if data, err := poster.Marshal(doc); err == nil {
		if err := r.Cache.Set(ctx, key, data, ttl(opts, cache.TTLLayout)); err != nil {
			opts.Logger.Warn("cache layout", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return doc, false, nil
}

// RenderWithCacheInfo renders every format, returning all artifacts from
// cache when each one is present. It also returns the document hash used
// in the artifact keys.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc poster.Document, opts Options) (map[string][]byte, string, bool, error) {
	if err := opts.SetDefaults(); err != nil {
		return nil, "", false, err
	}
	data, err := poster.Marshal(doc)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize poster for cache key: %w", err)
	}
	layoutHash := cache.Hash(data)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, layoutHash, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, doc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, ttl(opts, cache.TTLArtifact)); err != nil {
			opts.Logger.Warn("cache artifact", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, layoutHash, false, nil
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

// ttl prefers the configured lifetime over the built-in default.
func ttl(opts Options, fallback time.Duration) time.Duration {
	if opts.Config != nil && opts.Config.Cache.TTL > 0 {
		return opts.Config.Cache.TTL
	}
	return fallback
}
