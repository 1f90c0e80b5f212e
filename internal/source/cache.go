package source

import (
	"context"
	"sync"
)

type cacheKey struct {
	Workbook string
	Tab      string
}

// Cache memoizes fetch results per (workbook, tab). Entries never
// expire on their own; a user-triggered reload calls Invalidate.
type Cache struct {
	src Source

	mu      sync.Mutex
	entries map[cacheKey]Table
}

func NewCache(src Source) *Cache {
	return &Cache{
		src:     src,
		entries: make(map[cacheKey]Table),
	}
}

// Load returns the cached table for (workbook, tab), fetching it from
// the underlying source on first use.
func (c *Cache) Load(ctx context.Context, workbook, tab string) (Table, error) {
	key := cacheKey{Workbook: workbook, Tab: tab}

	c.mu.Lock()
	t, ok := c.entries[key]
	c.mu.Unlock()

	if ok {
		return t, nil
	}

	t, err := c.src.Fetch(ctx, workbook, tab)
	if err != nil {
		return Table{}, err
	}

	c.mu.Lock()
	c.entries[key] = t
	c.mu.Unlock()

	return t, nil
}

// Invalidate drops the cached entry for (workbook, tab). The next Load
// fetches fresh data.
func (c *Cache) Invalidate(workbook, tab string) {
	c.mu.Lock()
	delete(c.entries, cacheKey{Workbook: workbook, Tab: tab})
	c.mu.Unlock()
}
