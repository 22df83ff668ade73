package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagcloud/pkg/cache"
	"github.com/matzehuels/tagcloud/pkg/cloud"
	"github.com/matzehuels/tagcloud/pkg/observability"
	"github.com/matzehuels/tagcloud/pkg/words"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
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
// If cache is nil, caching is disabled.
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

// Execute runs the complete extract → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{TextHash: cache.Hash([]byte(opts.Text))}

	// Stage 1: Extract
	extractStart := time.Now()
	freqs, err := r.Extract(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	result.Frequencies = freqs
	result.Stats.WordCount = len(freqs)
	result.Stats.ExtractTime = time.Since(extractStart)

	opts.Logger.Info("extracted words",
		"words", len(freqs),
		"duration", result.Stats.ExtractTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	c, layoutHit, err := r.LayoutWithCacheInfo(ctx, freqs, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Cloud = c
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Placed = len(c.Tags)
	result.Stats.Skipped = len(c.Skipped)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"placed", len(c.Tags),
		"skipped", len(c.Skipped),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Extract counts the words of opts.Text.
func (r *Runner) Extract(ctx context.Context, opts Options) ([]words.Frequency, error) {
	opts.SetExtractDefaults()
	if err := opts.validateWordLimits(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnExtractStart(ctx, len(opts.Text))
	start := time.Now()

	freqs, err := Extract(opts)
	hooks.OnExtractComplete(ctx, len(freqs), time.Since(start), err)
	return freqs, err
}

// LayoutWithCacheInfo lays out freqs with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, freqs []words.Frequency, opts Options) (*cloud.Cloud, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	freqHash, err := cache.HashJSON(freqs)
	if err != nil {
		return nil, false, fmt.Errorf("hash frequencies for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(freqHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := cloud.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("layout cache lookup failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Layouter, len(freqs))
	start := time.Now()

	c, err := GenerateLayout(ctx, freqs, opts)
	placed := 0
	if c != nil {
		placed = len(c.Tags)
	}
	hooks.OnLayoutComplete(ctx, opts.Layouter, placed, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(c); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("layout cache store failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return c, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, freqs []words.Frequency, opts Options) (*cloud.Cloud, error) {
	c, _, err := r.LayoutWithCacheInfo(ctx, freqs, opts)
	return c, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c *cloud.Cloud, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutHash, err := cache.HashJSON(c)
	if err != nil {
		return nil, false, fmt.Errorf("hash layout for cache key: %w", err)
	}

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	rendered, err := Render(c, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("artifact cache store failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, c *cloud.Cloud, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, c, opts)
	return artifacts, err
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
