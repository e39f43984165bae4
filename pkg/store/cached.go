package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zonesmith/pkg/cache"
	"github.com/matzehuels/zonesmith/pkg/observability"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// Cached is a read-through cache in front of a remote Store. Writes go to
// the store first and then invalidate the cached copy. Cache failures are
// logged and never fail an operation.
type Cached struct {
	Store
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewCached wraps s. A nil keyer uses the default keyer.
func NewCached(s Store, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{Store: s, Cache: c, Keyer: keyer, TTL: ttl, Logger: logger}
}

// Get serves the layout from the cache, reading through to the wrapped
// store on a miss.
func (c *Cached) Get(ctx context.Context, name string) (*zone.Layout, error) {
	key := c.Keyer.LayoutKey(name)
	if data, ok, err := c.Cache.Get(ctx, key); err != nil {
		c.Logger.Warn("layout cache read failed", "layout", name, "error", err)
	} else if ok {
		var l zone.Layout
		if err := json.Unmarshal(data, &l); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return &l, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	l, err := c.Store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(l); err == nil {
		if err := c.Cache.Set(ctx, key, data, c.TTL); err != nil {
			c.Logger.Warn("layout cache write failed", "layout", name, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, nil
}

// Put writes to the wrapped store and drops the cached copy.
func (c *Cached) Put(ctx context.Context, l *zone.Layout) error {
	if err := c.Store.Put(ctx, l); err != nil {
		return err
	}
	c.invalidate(ctx, l.Name)
	return nil
}

// Delete removes the layout from the wrapped store and the cache.
func (c *Cached) Delete(ctx context.Context, name string) error {
	if err := c.Store.Delete(ctx, name); err != nil {
		return err
	}
	c.invalidate(ctx, name)
	return nil
}

func (c *Cached) invalidate(ctx context.Context, name string) {
	if err := c.Cache.Delete(ctx, c.Keyer.LayoutKey(name)); err != nil {
		c.Logger.Warn("layout cache invalidation failed", "layout", name, "error", err)
	}
}

var _ Store = (*Cached)(nil)

// Ping checks the wrapped store when it supports it.
func (c *Cached) Ping(ctx context.Context) error {
	if p, ok := c.Store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
