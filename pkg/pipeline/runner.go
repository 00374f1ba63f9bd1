package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docgraph/pkg/builder"
	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/layout"
	"github.com/matzehuels/docgraph/pkg/observability"
	"github.com/matzehuels/docgraph/pkg/positions"
	"github.com/matzehuels/docgraph/pkg/source"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, server and watcher all use it so caching logic lives in one place.
//
// A Runner holds no per-run state besides the position store, which is safe
// for concurrent use. Multiple goroutines can share a Runner.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	Positions *positions.Store
	FS        source.FileSystem

	// TTL overrides the default cache TTLs when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The runner reads the OS filesystem and starts with an empty position store.
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
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		Positions: positions.New(),
		FS:        source.NewOS(),
	}
}

// Execute runs the complete build → layout → render pipeline. Rendering is
// skipped when no formats are requested.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Build
	buildStart := time.Now()
	g, err := r.Build(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)
	if data, err := graph.ContentBytes(g); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	r.Logger.Info("built graph",
		"documents", g.LoadedDocuments,
		"total", g.TotalDocuments,
		"edges", len(g.Edges),
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"engine", l.Engine,
		"nodes", len(l.Nodes),
		"duration", result.Stats.LayoutTime)

	if len(opts.Formats) == 0 {
		return result, nil
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build scans opts.RootPath and assembles the document graph.
func (r *Runner) Build(ctx context.Context, opts Options) (*graph.Graph, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, opts.RootPath)
	start := time.Now()

	g, err := builder.Build(ctx, r.FS, opts.BuildOptions())

	if err != nil {
		hooks.OnBuildComplete(ctx, opts.RootPath, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnBuildComplete(ctx, opts.RootPath, g.LoadedDocuments, g.TotalDocuments, time.Since(start), nil)
	return g, nil
}

// LayoutWithCacheInfo positions g and reports whether the layout came from
// cache. Force layouts are never cached; they start from the positions
// remembered for opts.RootPath and save their result back.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (*Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	view := g.WithExternal(opts.IncludeExternal)

	if opts.Engine == layout.EngineForce {
		l, err := r.forceLayout(ctx, view, opts)
		return l, false, err
	}

	content, err := graph.ContentBytes(view)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(content), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				return cached, true, nil
			}
			// Undecodable entries fall through to recompute.
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	l, err := r.runEngine(ctx, view, layout.FromGraph(view.Nodes), opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLLayout)); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}

	return l, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) (*Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

func (r *Runner) forceLayout(ctx context.Context, g *graph.Graph, opts Options) (*Layout, error) {
	nodes := layout.FromGraph(g.Nodes)
	if r.Positions == nil {
		return r.runEngine(ctx, g, nodes, opts)
	}

	key := positions.Key(opts.RootPath)
	if opts.ResetPositions {
		r.Positions.Clear(key)
	}
	nodes = r.Positions.Restore(key, nodes)

	l, err := r.runEngine(ctx, g, nodes, opts)
	if err != nil {
		return nil, err
	}
	r.Positions.Save(key, l.Nodes)
	return l, nil
}

func (r *Runner) runEngine(ctx context.Context, g *graph.Graph, nodes []layout.Node, opts Options) (*Layout, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Engine, len(nodes))
	start := time.Now()

	l, err := computeLayout(ctx, g, nodes, opts)

	hooks.OnLayoutComplete(ctx, opts.Engine, time.Since(start), err)
	return l, err
}

// RenderWithCacheInfo renders l in every requested format and reports
// whether all artifacts came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	layoutData, err := MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

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
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	}

	hooks := observability.Pipeline()
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		out, err := Render(ctx, l, Options{Formats: []string{format}, Detailed: opts.Detailed})

		hooks.OnRenderComplete(ctx, format, len(out[format]), time.Since(start), err)
		if err != nil {
			return nil, false, err
		}
		rendered[format] = out[format]
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l *Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
