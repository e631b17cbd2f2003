package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wikilist/pkg/aggregate"
	"github.com/matzehuels/wikilist/pkg/cache"
	"github.com/matzehuels/wikilist/pkg/catalog"
	"github.com/matzehuels/wikilist/pkg/observability"
	"github.com/matzehuels/wikilist/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
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

// BuildList runs the complete fetch → layout → render pipeline for a list.
func (r *Runner) BuildList(ctx context.Context, wiki aggregate.Wiki, list *catalog.List, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Fetch
	fetchStart := time.Now()
	fetched, hit, err := r.FetchWithCacheInfo(ctx, wiki, list, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	fetchTime := time.Since(fetchStart)

	r.Logger.Info("fetched list",
		"list", list.Name,
		"members", fetched.Members,
		"uncategorized", len(fetched.Uncategorized),
		"cached", hit,
		"duration", fetchTime)

	result, err := r.build(ctx, list.Name, fetched.Tree, opts)
	if err != nil {
		return nil, err
	}
	result.Uncategorized = fetched.Uncategorized
	result.Failed = fetched.Failed
	result.Stats.Members = fetched.Members
	result.Stats.FetchTime = fetchTime
	result.CacheInfo.FetchHit = hit
	return result, nil
}

// BuildManual runs the layout → render stages for a hand-authored tree.
// Manual trees render with the title-colspan row style unless opts sets
// another one.
func (r *Runner) BuildManual(ctx context.Context, t *tree.Tree, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if opts.RowStyle == "" {
		opts.RowStyle = "title"
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result, err := r.build(ctx, t.Title(), t, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.Members = len(t.Members())
	return result, nil
}

func (r *Runner) build(ctx context.Context, name string, t *tree.Tree, opts Options) (*Result, error) {
	result := &Result{Name: name, Tree: t}

	// Stage 2: Layout
	layoutStart := time.Now()
	l, err := ComputeLayout(ctx, name, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Rows = l.Rows()
	result.Stats.Columns = l.Columns()

	r.Logger.Debug("computed layout",
		"rows", l.Rows(),
		"columns", l.Columns(),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := Render(ctx, l, t, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Wikitext = string(artifacts[FormatWikitext])
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FetchWithCacheInfo runs the fetch stage with caching and returns cache
// hit info. Results with failed lookups are not cached.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, wiki aggregate.Wiki, list *catalog.List, opts Options) (*Fetched, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.ListKey(list.Name, opts.ListKeyOpts(list.Hash()))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if f, err := decodeFetched(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "list")
				return f, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "list", list.Name)
		}
		observability.Cache().OnCacheMiss(ctx, "list")
	}

	f, err := Fetch(ctx, wiki, list, opts)
	if err != nil {
		return nil, false, err
	}

	if len(f.Failed) == 0 {
		if data, err := encodeFetched(f); err == nil {
			if r.Cache.Set(ctx, cacheKey, data, opts.ListTTL) == nil {
				observability.Cache().OnCacheSet(ctx, "list", len(data))
			}
		}
	} else {
		r.Logger.Warn("not caching partial list", "list", list.Name, "failed", len(f.Failed))
	}
	return f, false, nil
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
