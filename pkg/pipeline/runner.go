package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"

	"github.com/matzehuels/pqcgraph/pkg/cache"
	"github.com/matzehuels/pqcgraph/pkg/dataset"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so the caching logic lives in one place.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → build → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, store dataset.Store, source string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stages 1 and 2: load and build
	loadStart := time.Now()
	ds, g, stats, err := r.Load(ctx, store, source)
	if err != nil {
		return nil, err
	}
	result.Dataset = ds
	result.Graph = g
	result.Stats.Build = stats
	result.Stats.LoadTime = time.Since(loadStart)

	hash, err := DatasetHash(ds)
	if err != nil {
		return nil, fmt.Errorf("hash dataset: %w", err)
	}
	result.DatasetHash = hash

	r.Logger.Info("loaded dataset",
		"entities", stats.Entities,
		"relations", stats.Relations,
		"duration", result.Stats.LoadTime)

	// Stage 3: layout
	layoutStart := time.Now()
	layout, hit, err := r.LayoutWithCacheInfo(ctx, g, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"nodes", len(layout.Nodes),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 4: render
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, err := r.Render(ctx, g, layout, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)

		r.Logger.Info("rendered outputs",
			"formats", opts.Formats,
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// Load fetches the dataset and builds the graph. Dangling relations are
// dropped and reported at debug level.
func (r *Runner) Load(ctx context.Context, store dataset.Store, source string) (*dataset.Dataset, *graph.Graph, graph.BuildStats, error) {
	ds, err := dataset.NewLoader(store, source, r.Logger).Load(ctx)
	if err != nil {
		return nil, nil, graph.BuildStats{}, err
	}
	g, stats := graph.Build(ds.Nodes.LastUpdated, ds.Nodes.Entities, ds.Edges.Edges)
	if stats.Dangling > 0 || stats.Invalid > 0 {
		r.Logger.Debug("dropped records",
			"dangling_relations", stats.Dangling,
			"invalid_entities", stats.Invalid)
	}
	return ds, g, stats, nil
}

// DatasetHash returns the content hash of a dataset's nodes and edges
// documents. It keys cached layouts.
func DatasetHash(ds *dataset.Dataset) (string, error) {
	data, err := json.Marshal([]any{ds.Nodes, ds.Edges})
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// LayoutWithCacheInfo places g and reports whether the layout came from the
// cache. Positions depend only on the dataset and the radii, so the cache
// key combines the dataset hash with the radii.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Graph, datasetHash string, opts Options) (graph.Layout, bool, error) {
	if err := opts.Validate(); err != nil {
		return graph.Layout{}, false, err
	}
	hooks := observability.Pipeline()

	cacheKey := r.Keyer.LayoutKey(datasetHash, cache.LayoutKeyOpts{
		DefaultRadius: opts.Radii.Radius(graph.NoLayer),
		Radii:         opts.Radii,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := graph.UnmarshalLayout(data)
			if err == nil {
				return cached, true, nil
			}
			r.Logger.Debug("discarding unreadable cached layout", "key", cacheKey, "err", err)
		}
	}

	hooks.OnLayoutStart(ctx, g.EntityCount())
	start := time.Now()
	layout := graph.NewLayout(g, opts.Radii)
	hooks.OnLayoutComplete(ctx, time.Since(start), nil)

	if data, err := graph.MarshalLayout(layout); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Debug("cache layout", "err", err)
		}
	}

	return layout, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, datasetHash string, opts Options) (graph.Layout, error) {
	layout, _, err := r.LayoutWithCacheInfo(ctx, g, datasetHash, opts)
	return layout, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
