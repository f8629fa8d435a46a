// internal/cache/cache.go
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/salonkit/stylesync/pkg/models"
)

// Cache stores fetched pages so the gallery walk does not re-request the
// first page that the pagination probe already fetched.
type Cache interface {
	// Get retrieves a cached response by key.
	Get(key string) (*models.FetchResult, bool)

	// Set stores a response with the specified TTL. Existing keys are updated.
	Set(key string, result *models.FetchResult, ttl time.Duration) error

	// Delete removes a cached response by key. Missing keys are not an error.
	Delete(key string) error

	// Clear removes all cached responses.
	Clear() error

	// Close stops background goroutines.
	Close()
}

const (
	defaultLimit  = 32 * 1024 * 1024 // gallery pages are small
	defaultTTL    = 2 * time.Minute  // short, so a re-run sees fresh pages
	sweepInterval = time.Minute
	entryOverhead = 1024 // struct, headers map, pointers
)

// page is one cached fetch keyed by URL.
type page struct {
	key      string
	result   *models.FetchResult
	deadline time.Time
}

func (p *page) weight() int64 {
	return int64(len(p.result.Body)) + entryOverhead
}

// MemoryCache is an in-memory page cache with a byte budget. Least
// recently used entries are evicted when an insert would exceed it.
type MemoryCache struct {
	mu     sync.Mutex
	elems  map[string]*list.Element
	order  *list.List // front = most recently used
	limit  int64
	used   int64
	hits   uint64
	misses uint64

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMemoryCache builds a cache with the given byte budget; zero or
// negative gets the default.
func NewMemoryCache(maxSizeBytes int64) *MemoryCache {
	if maxSizeBytes <= 0 {
		maxSizeBytes = defaultLimit
	}
	mc := &MemoryCache{
		elems: make(map[string]*list.Element),
		order: list.New(),
		limit: maxSizeBytes,
		stop:  make(chan struct{}),
	}
	go mc.janitor()
	return mc
}

// Get returns the entry for key when present and fresh, refreshing its
// LRU position. Expired entries are dropped on sight.
func (mc *MemoryCache) Get(key string) (*models.FetchResult, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	elem, ok := mc.elems[key]
	if !ok {
		mc.misses++
		return nil, false
	}
	p := elem.Value.(*page)
	if time.Now().After(p.deadline) {
		mc.drop(elem)
		mc.misses++
		return nil, false
	}

	mc.order.MoveToFront(elem)
	mc.hits++
	log.Debug().Str("key", key).Msg("Cache hit")
	return p.result, true
}

// Set stores result under key for ttl, evicting old entries to stay
// inside the byte budget.
func (mc *MemoryCache) Set(key string, result *models.FetchResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	p := &page{key: key, result: result, deadline: time.Now().Add(ttl)}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if elem, ok := mc.elems[key]; ok {
		mc.used -= elem.Value.(*page).weight()
		elem.Value = p
		mc.order.MoveToFront(elem)
		mc.used += p.weight()
	} else {
		for mc.used+p.weight() > mc.limit && mc.order.Len() > 0 {
			mc.drop(mc.order.Back())
		}
		mc.elems[key] = mc.order.PushFront(p)
		mc.used += p.weight()
	}

	log.Debug().Str("key", key).Dur("ttl", ttl).Int64("bytes", p.weight()).Msg("Cached page")
	return nil
}

// Delete removes key when present.
func (mc *MemoryCache) Delete(key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if elem, ok := mc.elems[key]; ok {
		mc.drop(elem)
	}
	return nil
}

// Clear empties the cache and resets the counters.
func (mc *MemoryCache) Clear() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.elems = make(map[string]*list.Element)
	mc.order.Init()
	mc.used = 0
	mc.hits = 0
	mc.misses = 0
	return nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (mc *MemoryCache) Close() {
	mc.stopOnce.Do(func() { close(mc.stop) })
}

// drop unlinks elem. Lock must be held.
func (mc *MemoryCache) drop(elem *list.Element) {
	p := mc.order.Remove(elem).(*page)
	delete(mc.elems, p.key)
	mc.used -= p.weight()
}

// janitor sweeps expired entries once a minute so abandoned keys do not
// pin memory until the next Get.
func (mc *MemoryCache) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			mc.sweep(time.Now())
		case <-mc.stop:
			return
		}
	}
}

func (mc *MemoryCache) sweep(now time.Time) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	var next *list.Element
	for elem := mc.order.Front(); elem != nil; elem = next {
		next = elem.Next()
		if now.After(elem.Value.(*page).deadline) {
			mc.drop(elem)
		}
	}
}

// Stats reports entry count, byte usage and hit rate.
func (mc *MemoryCache) Stats() map[string]interface{} {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	rate := 0.0
	if total := mc.hits + mc.misses; total > 0 {
		rate = float64(mc.hits) / float64(total) * 100
	}
	return map[string]interface{}{
		"entries":    mc.order.Len(),
		"size_bytes": mc.used,
		"max_size":   mc.limit,
		"hits":       mc.hits,
		"misses":     mc.misses,
		"hit_rate":   rate,
	}
}
