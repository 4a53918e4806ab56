package storage

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// cacheItem represents an item in the cache
type cacheItem struct {
	key       string
	value     []byte
	expiresAt time.Time
	element   *list.Element
}

func (it *cacheItem) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// MemoryCache implements an LRU cache with per-entry TTL
type MemoryCache struct {
	maxSize int
	items   map[string]*cacheItem
	lruList *list.List
	mu      sync.Mutex
	hits    int64
	misses  int64
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryCache creates an LRU cache holding at most maxSize entries.
// Expired entries are swept every cleanupInterval; zero disables the sweep
// and expiry is then checked lazily on Get.
func NewMemoryCache(maxSize int, cleanupInterval time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	cache := &MemoryCache{
		maxSize: maxSize,
		items:   make(map[string]*cacheItem),
		lruList: list.New(),
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go cache.cleanupRoutine(cleanupInterval)
	}

	return cache
}

// Set adds or updates an item in the cache
func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = mc.now().Add(ttl)
	}
	stored := append([]byte(nil), value...)

	if item, exists := mc.items[key]; exists {
		item.value = stored
		item.expiresAt = expiresAt
		mc.lruList.MoveToFront(item.element)
		return nil
	}

	item := &cacheItem{key: key, value: stored, expiresAt: expiresAt}
	item.element = mc.lruList.PushFront(item)
	mc.items[key] = item

	if len(mc.items) > mc.maxSize {
		mc.evictOldest()
	}
	return nil
}

// Get retrieves an item from the cache
func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, exists := mc.items[key]
	if !exists {
		mc.misses++
		return nil, false, nil
	}
	if item.expired(mc.now()) {
		mc.deleteItem(item)
		mc.misses++
		return nil, false, nil
	}

	mc.lruList.MoveToFront(item.element)
	mc.hits++
	return append([]byte(nil), item.value...), true, nil
}

// Delete removes an item from the cache
func (mc *MemoryCache) Delete(_ context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if item, exists := mc.items[key]; exists {
		mc.deleteItem(item)
	}
	return nil
}

// Close stops the cleanup routine.
func (mc *MemoryCache) Close() error {
	mc.once.Do(func() { close(mc.stop) })
	return nil
}

// Stats returns cache statistics
func (mc *MemoryCache) Stats() CacheStats {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return CacheStats{
		Size:    len(mc.items),
		MaxSize: mc.maxSize,
		Hits:    mc.hits,
		Misses:  mc.misses,
	}
}

// evictOldest removes the least recently used item
func (mc *MemoryCache) evictOldest() {
	if element := mc.lruList.Back(); element != nil {
		mc.deleteItem(element.Value.(*cacheItem))
	}
}

func (mc *MemoryCache) deleteItem(item *cacheItem) {
	delete(mc.items, item.key)
	mc.lruList.Remove(item.element)
}

func (mc *MemoryCache) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-mc.stop:
			return
		case <-ticker.C:
			mc.cleanupExpired()
		}
	}
}

func (mc *MemoryCache) cleanupExpired() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()
	for _, item := range mc.items {
		if item.expired(now) {
			mc.deleteItem(item)
		}
	}
}
