package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/plotgrid/pkg/cache"
	"github.com/matzehuels/plotgrid/pkg/chart"
	"github.com/matzehuels/plotgrid/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and service use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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

// Execute runs the complete parse → layout → render pipeline with caching.
// When every requested artifact is cached the layout stage is skipped.
func (r *Runner) Execute(ctx context.Context, source []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		ChartHash: cache.Hash(source),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID)
	opts.Logger = logger

	// Stage 1: Parse
	parseStart := time.Now()
	spec, err := ParseChart(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	width, height := frame(spec, opts)
	result.Title = spec.Title
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.ComponentCount = spec.Count()
	result.Stats.Width, result.Stats.Height = width, height

	logger.Info("parsed chart",
		"source", opts.Source,
		"components", result.Stats.ComponentCount,
		"duration", result.Stats.ParseTime)

	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, result.ChartHash, opts, width, height); ok {
			result.Artifacts = cached
			result.CacheInfo.RenderHit = true
			logger.Info("served from cache", "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	scene, err := Layout(ctx, spec, opts)
	if err != nil {
		return nil, err
	}
	defer scene.Close()
	result.Snapshot = scene.Snapshot()
	result.Stats.LayoutTime = time.Since(layoutStart)

	logger.Info("computed layout",
		"width", width,
		"height", height,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := Render(ctx, scene, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	r.store(ctx, result.ChartHash, opts, width, height, artifacts)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout parses the chart and lays it out without touching the cache.
// The caller owns the scene and should Close it.
func (r *Runner) Layout(ctx context.Context, source []byte, opts Options) (*Scene, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	spec, err := ParseChart(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	return Layout(ctx, spec, opts)
}

// Parse is ParseChart with the runner's logger applied.
func (r *Runner) Parse(ctx context.Context, source []byte, opts Options) (*chart.Spec, error) {
	r.applyLogger(&opts)
	return ParseChart(ctx, source, opts)
}

// key returns the cache key of one artifact. Snapshots are keyed by layout
// inputs only since they do not depend on output options.
func (r *Runner) key(chartHash string, opts Options, format string, width, height float64) (key, kind string) {
	if format == FormatJSON {
		return r.Keyer.LayoutKey(chartHash, opts.LayoutKeyOpts(width, height)), "layout"
	}
	return r.Keyer.ArtifactKey(chartHash, opts.ArtifactKeyOpts(format, width, height)), "artifact"
}

// lookup returns all requested artifacts, or ok=false if any is missing.
func (r *Runner) lookup(ctx context.Context, chartHash string, opts Options, width, height float64) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key, kind := r.key(chartHash, opts, format, width, height)
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			opts.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, kind)
			return nil, false
		}
		hooks.OnCacheHit(ctx, kind)
		artifacts[format] = data
	}
	return artifacts, true
}

// store writes artifacts to the cache. Failures are logged, not returned.
func (r *Runner) store(ctx context.Context, chartHash string, opts Options, width, height float64, artifacts map[string][]byte) {
	hooks := observability.Cache()
	for format, data := range artifacts {
		key, kind := r.key(chartHash, opts, format, width, height)
		ttl := cache.TTLArtifact
		if kind == "layout" {
			ttl = cache.TTLLayout
		}
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, kind, len(data))
	}
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
