package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/zonesmith/pkg/cache"
	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/observability"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// Runner encapsulates rendering with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
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
		TTL:    DefaultArtifactTTL,
	}
}

// Execute converts the zones and renders every requested format.
//
// Formats render concurrently; the first failure cancels the rest and is
// returned. Cache errors are logged and otherwise ignored.
func (r *Runner) Execute(ctx context.Context, zones []zone.Zone, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	l, err := edgelayout.FromZones(zones)
	if err != nil {
		return nil, err
	}
	return r.ExecuteLayout(ctx, l, opts)
}

// ExecuteLayout renders an already converted layout.
func (r *Runner) ExecuteLayout(ctx context.Context, l *edgelayout.Layout, opts Options) (result *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Render().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Render().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	hash := cache.HashJSON(l.Zones())
	graphHash := cache.HashJSON(NewDocument(l))
	result = &Result{
		Hash:      hash,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		Stats:     Stats{RegionCount: l.RegionCount(), EdgeCount: l.EdgeCount()},
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			key := hash
			if opts.UsesGraph(format) {
				key = graphHash
			}
			data, hit, err := r.renderCached(gctx, l, key, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			defer mu.Unlock()
			result.Artifacts[format] = data
			if hit {
				result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
			} else {
				result.CacheInfo.Misses = append(result.CacheInfo.Misses, format)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(result.CacheInfo.Hits),
		"duration", result.Stats.RenderTime)
	return result, nil
}

// renderCached renders one format, consulting the cache first unless
// opts.Refresh is set.
func (r *Runner) renderCached(ctx context.Context, l *edgelayout.Layout, hash, format string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, "artifact")
			r.Logger.Debug("artifact from cache", "format", format)
			return data, true, nil
		default:
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
	}

	data, err := RenderFormat(ctx, l, format, opts)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
