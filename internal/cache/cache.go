// Package cache holds computed consensus batches with scope-aware expiry so
// repeat reads within a window skip recomputation.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/gridironlabs/consensus/internal/model"
)

// Default TTLs. Scopes near the active week refresh often; everything else
// can sit for hours.
const (
	DefaultNearTTL = 30 * time.Minute
	DefaultFarTTL  = 4 * time.Hour

	// nearWindow is the distance in weeks from the active week within
	// which the short TTL applies.
	nearWindow = 3
)

// Key identifies one cached consensus batch. Week 0 means full-season scope.
type Key struct {
	Season   string
	Week     int
	Position model.Position
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%d|%s", k.Season, k.Week, k.Position)
}

// Entry is a cached batch plus its freshness metadata. Stale entries remain
// inspectable but are never served by GetOrCompute.
type Entry struct {
	Lines      []model.ConsensusProjection
	ComputedAt time.Time
	ExpiresAt  time.Time
	Stale      bool
}

// Persister receives freshly computed batches for durable storage. Persist
// failures degrade to cache-only operation rather than failing the read.
type Persister interface {
	Save(ctx context.Context, key Key, lines []model.ConsensusProjection) error
}

// Stats counts cache activity since construction.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache is a read-through consensus cache. Concurrent requests for the same
// expired key collapse into a single computation.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]Entry

	group      singleflight.Group
	now        func() time.Time
	activeWeek func() int
	nearTTL    time.Duration
	farTTL     time.Duration
	persist    Persister

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithNow injects the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithActiveWeek injects the current NFL week used for TTL selection.
func WithActiveWeek(fn func() int) Option {
	return func(c *Cache) { c.activeWeek = fn }
}

// WithTTLs overrides the near and far expiry windows.
func WithTTLs(near, far time.Duration) Option {
	return func(c *Cache) {
		c.nearTTL = near
		c.farTTL = far
	}
}

// WithPersister attaches durable storage for computed batches.
func WithPersister(p Persister) Option {
	return func(c *Cache) { c.persist = p }
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[Key]Entry),
		now:        time.Now,
		activeWeek: func() int { return 0 },
		nearTTL:    DefaultNearTTL,
		farTTL:     DefaultFarTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ttl picks the expiry window for a key. Season-scope batches and weeks far
// from the active week use the long window.
func (c *Cache) ttl(key Key) time.Duration {
	if key.Week == 0 {
		return c.farTTL
	}
	active := c.activeWeek()
	if active == 0 {
		return c.farTTL
	}
	delta := key.Week - active
	if delta < 0 {
		delta = -delta
	}
	if delta <= nearWindow {
		return c.nearTTL
	}
	return c.farTTL
}

// Get returns the cached entry for a key and whether it is still fresh. An
// expired or invalidated entry is returned stale=true rather than dropped, so
// callers can inspect it or serve stale data when recomputation fails.
func (c *Cache) Get(key Key) (Entry, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return Entry{}, false, false
	}
	stale := entry.Stale || c.now().After(entry.ExpiresAt)
	return entry, true, stale
}

// GetOrCompute returns the cached batch for a key, computing and storing it
// when absent or expired. The second return reports whether the result came
// from cache.
func (c *Cache) GetOrCompute(ctx context.Context, key Key, compute func(context.Context) ([]model.ConsensusProjection, error)) ([]model.ConsensusProjection, bool, error) {
	if entry, ok, stale := c.Get(key); ok && !stale {
		c.hits.Add(1)
		return entry.Lines, true, nil
	}
	c.misses.Add(1)

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// A concurrent caller may have filled the entry while this one
		// waited on the flight group.
		if entry, ok, stale := c.Get(key); ok && !stale {
			return entry.Lines, nil
		}

		lines, err := compute(ctx)
		if err != nil {
			return nil, eris.Wrapf(err, "cache: compute %s", key)
		}
		c.Replace(key, lines)

		if c.persist != nil {
			if err := c.persist.Save(ctx, key, lines); err != nil {
				zap.L().Warn("consensus persist failed, serving from cache only",
					zap.String("key", key.String()),
					zap.Error(err),
				)
			}
		}
		return lines, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]model.ConsensusProjection), false, nil
}

// Replace atomically installs a batch for a key with a fresh TTL.
func (c *Cache) Replace(key Key, lines []model.ConsensusProjection) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{
		Lines:      lines,
		ComputedAt: now,
		ExpiresAt:  now.Add(c.ttl(key)),
	}
}

// Filter selects cache entries for invalidation. Nil fields match every key.
type Filter struct {
	Season   *string
	Week     *int
	Position *model.Position
}

func (f Filter) matches(key Key) bool {
	if f.Season != nil && *f.Season != key.Season {
		return false
	}
	if f.Week != nil && *f.Week != key.Week {
		return false
	}
	if f.Position != nil && *f.Position != key.Position {
		return false
	}
	return true
}

// Invalidate soft-marks entries matching the filter as stale and returns how
// many were marked. The next GetOrCompute for a marked key recomputes even
// before its TTL elapses; the entry itself stays inspectable via Get.
func (c *Cache) Invalidate(f Filter) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var marked int
	for key, entry := range c.entries {
		if !entry.Stale && f.matches(key) {
			entry.Stale = true
			c.entries[key] = entry
			marked++
		}
	}
	return marked
}

// Stats reports entry count and hit/miss totals.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Entries: entries,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
