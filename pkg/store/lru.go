package store

import "container/list"

type lruEntry struct {
	pageID int64
	blob   []byte
}

// lru is a fixed-capacity least recently used map of blobs. It is not
// synchronized; Cached guards it.
type lru struct {
	capacity int
	items    map[int64]*list.Element
	order    *list.List
}

func newLRU(capacity int) *lru {
	return &lru{
		capacity: capacity,
		items:    make(map[int64]*list.Element, capacity),
		order:    list.New(),
	}
}

func (c *lru) get(pageID int64) ([]byte, bool) {
	elem, ok := c.items[pageID]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*lruEntry).blob, true
}

func (c *lru) put(pageID int64, blob []byte) {
	if elem, ok := c.items[pageID]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*lruEntry).blob = blob
		return
	}
	c.items[pageID] = c.order.PushFront(&lruEntry{pageID: pageID, blob: blob})
	if c.order.Len() > c.capacity {
		c.remove(c.order.Back())
	}
}

func (c *lru) forget(pageID int64) {
	if elem, ok := c.items[pageID]; ok {
		c.remove(elem)
	}
}

func (c *lru) remove(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*lruEntry).pageID)
}

func (c *lru) len() int {
	return c.order.Len()
}
