package services

import (
	"container/list"
	"sync"
	"time"
)

type cachedURL struct {
	itemID   uint64
	url      string
	issuedAt time.Time
}

// urlCache is a small bounded LRU of last-issued access URLs keyed by item
// id. It is a best-effort optimization: losing an entry only costs an
// extra refresh call against the collaborator.
type urlCache struct {
	mu      sync.Mutex
	cap     int
	order   *list.List
	entries map[uint64]*list.Element
}

func newURLCache(capacity int) *urlCache {
	if capacity <= 0 {
		capacity = 1024
	}
	return &urlCache{
		cap:     capacity,
		order:   list.New(),
		entries: make(map[uint64]*list.Element),
	}
}

func (c *urlCache) get(itemID uint64) (cachedURL, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[itemID]
	if !ok {
		return cachedURL{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(cachedURL), true
}

func (c *urlCache) put(itemID uint64, url string, issuedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[itemID]; ok {
		el.Value = cachedURL{itemID: itemID, url: url, issuedAt: issuedAt}
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(cachedURL{itemID: itemID, url: url, issuedAt: issuedAt})
	c.entries[itemID] = el

	if c.order.Len() > c.cap {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(cachedURL).itemID)
	}
}

func (c *urlCache) drop(itemID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[itemID]; ok {
		c.order.Remove(el)
		delete(c.entries, itemID)
	}
}
