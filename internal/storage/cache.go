package storage

import "github.com/dgraph-io/ristretto"

// statsCache memoizes monthly summary queries. Any expense write clears it
// wholesale.
type statsCache struct {
	cache *ristretto.Cache
}

func newStatsCache() (*statsCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000, // number of keys to track frequency of
		MaxCost:     1000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, err
	}
	return &statsCache{cache: cache}, nil
}

func (c *statsCache) get(key string) ([]CategoryTotal, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	totals, ok := v.([]CategoryTotal)
	return totals, ok
}

func (c *statsCache) set(key string, totals []CategoryTotal) {
	c.cache.Set(key, totals, 1)
}

func (c *statsCache) clear() {
	c.cache.Clear()
}

func (c *statsCache) close() {
	c.cache.Close()
}
