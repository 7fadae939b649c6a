package tie

import (
	"cmp"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// pairKey identifies an ordered pair of reviews.
type pairKey struct {
	A ID `json:"a"`
	B ID `json:"b"`
}

// cacheEntry is one persisted similarity.
type cacheEntry struct {
	pairKey
	Score float64 `json:"score"`
}

// pairCache memoizes similarity scores.
type pairCache interface {
	get(key pairKey) (float64, bool)
	put(key pairKey, score float64)
	len() int
	// entries lists the cached scores so that replaying them through put
	// rebuilds an equivalent cache.
	entries() []cacheEntry
}

// newPairCache returns an unbounded cache for size 0 and an LRU cache otherwise.
func newPairCache(size int) (pairCache, error) {
	if size == 0 {
		return &mapCache{scores: make(map[pairKey]float64)}, nil
	}

	c, err := lru.New[pairKey, float64](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create similarity cache: %w", err)
	}
	return &lruCache{cache: c}, nil
}

// mapCache keeps every computed pair for the lifetime of the model.
type mapCache struct {
	scores map[pairKey]float64
}

func (c *mapCache) get(key pairKey) (float64, bool) {
	score, ok := c.scores[key]
	return score, ok
}

func (c *mapCache) put(key pairKey, score float64) {
	c.scores[key] = score
}

func (c *mapCache) len() int {
	return len(c.scores)
}

func (c *mapCache) entries() []cacheEntry {
	out := make([]cacheEntry, 0, len(c.scores))
	for k, v := range c.scores {
		out = append(out, cacheEntry{pairKey: k, Score: v})
	}
	// map order is random; sort for stable snapshots
	slices.SortFunc(out, func(x, y cacheEntry) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return out
}

// lruCache evicts the least recently used pair once capacity is reached.
type lruCache struct {
	cache *lru.Cache[pairKey, float64]
}

func (c *lruCache) get(key pairKey) (float64, bool) {
	return c.cache.Get(key)
}

func (c *lruCache) put(key pairKey, score float64) {
	c.cache.Add(key, score)
}

func (c *lruCache) len() int {
	return c.cache.Len()
}

func (c *lruCache) entries() []cacheEntry {
	// Keys is ordered oldest to newest, so replay restores recency
	keys := c.cache.Keys()
	out := make([]cacheEntry, 0, len(keys))
	for _, k := range keys {
		if v, ok := c.cache.Peek(k); ok {
			out = append(out, cacheEntry{pairKey: k, Score: v})
		}
	}
	return out
}
