package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/consensus/internal/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testLines(name string) []model.ConsensusProjection {
	return []model.ConsensusProjection{{PlayerKey: "p1", PlayerName: name}}
}

func newTestCache(clock *fakeClock, opts ...Option) *Cache {
	base := []Option{
		WithNow(clock.Now),
		WithActiveWeek(func() int { return 5 }),
	}
	return New(append(base, opts...)...)
}

func TestCache_MissThenHit(t *testing.T) {
	c := newTestCache(newFakeClock())
	var computes atomic.Int32
	compute := func(context.Context) ([]model.ConsensusProjection, error) {
		computes.Add(1)
		return testLines("first"), nil
	}
	key := Key{Season: "2025", Week: 5, Position: model.PositionRB}

	lines, cached, err := c.GetOrCompute(context.Background(), key, compute)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "first", lines[0].PlayerName)

	lines, cached, err = c.GetOrCompute(context.Background(), key, compute)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "first", lines[0].PlayerName)
	assert.Equal(t, int32(1), computes.Load())

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCache_NearWeekExpiresOnShortTTL(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	var computes atomic.Int32
	compute := func(context.Context) ([]model.ConsensusProjection, error) {
		computes.Add(1)
		return testLines("v"), nil
	}
	key := Key{Season: "2025", Week: 6, Position: model.PositionRB} // 1 week out

	_, _, err := c.GetOrCompute(context.Background(), key, compute)
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)
	_, cached, err := c.GetOrCompute(context.Background(), key, compute)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, int32(2), computes.Load())
}

func TestCache_FarWeekUsesLongTTL(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	key := Key{Season: "2025", Week: 15, Position: model.PositionRB} // 10 weeks out

	_, _, err := c.GetOrCompute(context.Background(), key, func(context.Context) ([]model.ConsensusProjection, error) {
		return testLines("v"), nil
	})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	_, cached, err := c.GetOrCompute(context.Background(), key, nil)
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestCache_SeasonScopeUsesLongTTL(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	key := Key{Season: "2025", Week: 0, Position: model.PositionQB}

	_, _, err := c.GetOrCompute(context.Background(), key, func(context.Context) ([]model.ConsensusProjection, error) {
		return testLines("season"), nil
	})
	require.NoError(t, err)

	clock.Advance(3 * time.Hour)
	_, cached, err := c.GetOrCompute(context.Background(), key, nil)
	require.NoError(t, err)
	assert.True(t, cached)

	clock.Advance(2 * time.Hour)
	entry, ok, stale := c.Get(key)
	assert.True(t, ok)
	assert.True(t, stale)
	assert.Len(t, entry.Lines, 1)
}

func TestCache_ComputeErrorNotStored(t *testing.T) {
	c := newTestCache(newFakeClock())
	key := Key{Season: "2025", Week: 5, Position: model.PositionRB}

	_, _, err := c.GetOrCompute(context.Background(), key, func(context.Context) ([]model.ConsensusProjection, error) {
		return nil, eris.New("provider down")
	})
	require.Error(t, err)

	_, ok, _ := c.Get(key)
	assert.False(t, ok)
}

type failingPersister struct {
	calls atomic.Int32
}

func (p *failingPersister) Save(context.Context, Key, []model.ConsensusProjection) error {
	p.calls.Add(1)
	return eris.New("disk full")
}

func TestCache_PersistFailureIsNonFatal(t *testing.T) {
	persist := &failingPersister{}
	c := newTestCache(newFakeClock(), WithPersister(persist))
	key := Key{Season: "2025", Week: 5, Position: model.PositionRB}

	lines, _, err := c.GetOrCompute(context.Background(), key, func(context.Context) ([]model.ConsensusProjection, error) {
		return testLines("kept"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "kept", lines[0].PlayerName)
	assert.Equal(t, int32(1), persist.calls.Load())

	// The batch is cached despite the persist failure.
	_, cached, err := c.GetOrCompute(context.Background(), key, nil)
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestCache_ConcurrentComputeCollapses(t *testing.T) {
	c := newTestCache(newFakeClock())
	key := Key{Season: "2025", Week: 5, Position: model.PositionRB}

	var computes atomic.Int32
	compute := func(context.Context) ([]model.ConsensusProjection, error) {
		computes.Add(1)
		time.Sleep(20 * time.Millisecond)
		return testLines("shared"), nil
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lines, _, err := c.GetOrCompute(context.Background(), key, compute)
			assert.NoError(t, err)
			assert.Equal(t, "shared", lines[0].PlayerName)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), computes.Load())
}

func TestCache_InvalidateByWeek(t *testing.T) {
	c := newTestCache(newFakeClock())
	hit := Key{Season: "2025", Week: 5, Position: model.PositionRB}
	c.Replace(hit, testLines("a"))
	c.Replace(Key{Season: "2025", Week: 5, Position: model.PositionWR}, testLines("b"))
	untouched := Key{Season: "2025", Week: 6, Position: model.PositionRB}
	c.Replace(untouched, testLines("c"))

	week := 5
	marked := c.Invalidate(Filter{Week: &week})
	assert.Equal(t, 2, marked)

	// Marked entries stay inspectable but read back stale.
	entry, ok, stale := c.Get(hit)
	require.True(t, ok)
	assert.True(t, stale)
	assert.Equal(t, "a", entry.Lines[0].PlayerName)

	_, ok, stale = c.Get(untouched)
	require.True(t, ok)
	assert.False(t, stale)
	assert.Equal(t, 3, c.Stats().Entries)
}

func TestCache_InvalidateByPosition(t *testing.T) {
	c := newTestCache(newFakeClock())
	c.Replace(Key{Season: "2025", Week: 5, Position: model.PositionRB}, testLines("a"))
	c.Replace(Key{Season: "2025", Week: 6, Position: model.PositionRB}, testLines("b"))
	qb := Key{Season: "2025", Week: 5, Position: model.PositionQB}
	c.Replace(qb, testLines("c"))

	pos := model.PositionRB
	marked := c.Invalidate(Filter{Position: &pos})
	assert.Equal(t, 2, marked)

	_, _, stale := c.Get(qb)
	assert.False(t, stale)
}

func TestCache_InvalidateAll(t *testing.T) {
	c := newTestCache(newFakeClock())
	k1 := Key{Season: "2025", Week: 5, Position: model.PositionRB}
	k2 := Key{Season: "2024", Week: 5, Position: model.PositionRB}
	c.Replace(k1, testLines("a"))
	c.Replace(k2, testLines("b"))

	marked := c.Invalidate(Filter{})
	assert.Equal(t, 2, marked)
	for _, k := range []Key{k1, k2} {
		_, ok, stale := c.Get(k)
		assert.True(t, ok)
		assert.True(t, stale)
	}

	// Already-stale entries are not counted twice.
	assert.Zero(t, c.Invalidate(Filter{}))
}

func TestCache_InvalidateForcesRecompute(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	key := Key{Season: "2025", Week: 5, Position: model.PositionRB}

	var computes atomic.Int32
	compute := func(context.Context) ([]model.ConsensusProjection, error) {
		computes.Add(1)
		return testLines("fresh"), nil
	}

	_, _, err := c.GetOrCompute(context.Background(), key, compute)
	require.NoError(t, err)

	// Well inside the TTL, yet the next read recomputes after invalidation.
	clock.Advance(time.Minute)
	c.Invalidate(Filter{Week: &key.Week})

	_, cached, err := c.GetOrCompute(context.Background(), key, compute)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, int32(2), computes.Load())

	// The recompute cleared the stale mark.
	_, _, stale := c.Get(key)
	assert.False(t, stale)
}

func TestCache_ReplaceRefreshesExpiry(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	key := Key{Season: "2025", Week: 5, Position: model.PositionRB}

	c.Replace(key, testLines("old"))
	clock.Advance(25 * time.Minute)
	c.Replace(key, testLines("new"))
	clock.Advance(10 * time.Minute)

	entry, ok, stale := c.Get(key)
	require.True(t, ok)
	assert.False(t, stale)
	assert.Equal(t, "new", entry.Lines[0].PlayerName)
}
