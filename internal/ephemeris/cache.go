package ephemeris

import (
	"container/list"
	"sync"

	"github.com/papapumpkin/siderea/internal/chart"
)

// DefaultCacheSize bounds the position cache when no size is configured.
const DefaultCacheSize = 1024

// cacheKey identifies one memoizable computation. Positions are geocentric,
// so the observer's coordinates do not participate; the instant is rounded to
// the second, below the angular resolution of either strategy.
type cacheKey struct {
	unix  int64
	frame Frame
}

type cacheEntry struct {
	key cacheKey
	set PositionSet
}

// cachedProvider wraps a Provider with a thread-safe bounded LRU. Position
// sets for a given instant and frame are idempotent, so entries never expire;
// they are only evicted to bound memory.
type cachedProvider struct {
	inner Provider

	mu    sync.Mutex
	items map[cacheKey]*list.Element
	order *list.List // front = most recently used
	max   int
}

// Cached wraps p with an LRU memo of at most maxEntries position sets.
// Non-positive sizes use DefaultCacheSize. Returned sets are copies; callers
// may mutate them freely.
func Cached(p Provider, maxEntries int) Provider {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &cachedProvider{
		inner: p,
		items: make(map[cacheKey]*list.Element),
		order: list.New(),
		max:   maxEntries,
	}
}

// Positions implements Provider, serving from the memo when possible.
func (c *cachedProvider) Positions(in chart.Instant, frame Frame) (PositionSet, error) {
	key := cacheKey{unix: in.Time.Unix(), frame: frame}

	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		set := el.Value.(*cacheEntry).set.Clone()
		c.mu.Unlock()
		return set, nil
	}
	c.mu.Unlock()

	// Compute outside the lock; concurrent misses for the same key both
	// compute, which is harmless since results are identical.
	set, err := c.inner.Positions(in, frame)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if _, ok := c.items[key]; !ok {
		c.items[key] = c.order.PushFront(&cacheEntry{key: key, set: set.Clone()})
		for len(c.items) > c.max {
			oldest := c.order.Back()
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
	c.mu.Unlock()

	return set, nil
}

// Accuracy implements Provider.
func (c *cachedProvider) Accuracy() Accuracy { return c.inner.Accuracy() }

// Close implements Provider.
func (c *cachedProvider) Close() error { return c.inner.Close() }
