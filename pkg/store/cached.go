package store

import (
	"context"
	"slices"
	"sync"
)

// Cached is a read-through LRU cache in front of another Store. Writes go
// to the wrapped store first and then replace or drop the cached entry.
type Cached struct {
	next Store

	mu    sync.Mutex
	cache *lru
	// gen increases on every write; a read only fills the cache when no
	// write happened while it was loading, so stale blobs are never cached.
	gen uint64
}

// NewCached caches up to capacity blobs. It panics when capacity is not
// positive.
func NewCached(next Store, capacity int) *Cached {
	if capacity <= 0 {
		panic("store: cache capacity must be positive")
	}
	return &Cached{next: next, cache: newLRU(capacity)}
}

func (c *Cached) Put(ctx context.Context, pageID int64, blob []byte) error {
	if err := c.next.Put(ctx, pageID, blob); err != nil {
		return err
	}
	c.mu.Lock()
	c.gen++
	c.cache.put(pageID, slices.Clone(blob))
	c.mu.Unlock()
	return nil
}

func (c *Cached) Get(ctx context.Context, pageID int64) ([]byte, error) {
	c.mu.Lock()
	blob, ok := c.cache.get(pageID)
	gen := c.gen
	c.mu.Unlock()
	if ok {
		return slices.Clone(blob), nil
	}

	blob, err := c.next.Get(ctx, pageID)
	if err != nil {
		return nil, err
	}
	c.fill(gen, map[int64][]byte{pageID: blob})
	return blob, nil
}

func (c *Cached) GetMany(ctx context.Context, pageIDs []int64) (map[int64][]byte, error) {
	ids := normalizeIDs(pageIDs)
	out := make(map[int64][]byte, len(ids))

	var missing []int64
	c.mu.Lock()
	for _, id := range ids {
		if blob, ok := c.cache.get(id); ok {
			out[id] = slices.Clone(blob)
		} else {
			missing = append(missing, id)
		}
	}
	gen := c.gen
	c.mu.Unlock()

	if len(missing) == 0 {
		return out, nil
	}
	fetched, err := c.next.GetMany(ctx, missing)
	if err != nil {
		return nil, err
	}
	c.fill(gen, fetched)
	for id, blob := range fetched {
		out[id] = blob
	}
	return out, nil
}

func (c *Cached) Delete(ctx context.Context, pageID int64) error {
	if err := c.next.Delete(ctx, pageID); err != nil {
		return err
	}
	c.mu.Lock()
	c.gen++
	c.cache.forget(pageID)
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached blobs.
func (c *Cached) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.len()
}

func (c *Cached) fill(gen uint64, blobs map[int64][]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	for id, blob := range blobs {
		c.cache.put(id, slices.Clone(blob))
	}
}
