package cache

import (
	"sync"
	"time"

	"github.com/getmentor/contentbridge/pkg/logger"
	"github.com/getmentor/contentbridge/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const contentCacheName = "content"

// ContentCache keeps CMS responses in memory for a fixed TTL. Every entry is
// indexed by the tags it was stored with so webhook revalidation can drop
// exactly the entries a content change affects.
//
// Readers that fetch outside the cache take a Generation before the fetch and
// store with SetIfUnchanged, so a response fetched before an invalidation of
// any of its tags is never written back.
type ContentCache struct {
	cache *gocache.Cache
	ttl   time.Duration

	mu      sync.Mutex
	tagKeys map[string]map[string]struct{}
	tagGens map[string]uint64
	epoch   uint64 // bumped by Flush
}

// NewContentCache creates a new content cache with the given TTL in seconds
func NewContentCache(ttlSeconds int) *ContentCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}

	cc := &ContentCache{
		cache:   gocache.New(ttl, ttl/2),
		ttl:     ttl,
		tagKeys: make(map[string]map[string]struct{}),
		tagGens: make(map[string]uint64),
	}
	cc.cache.OnEvicted(func(key string, _ interface{}) {
		cc.forget(key)
	})
	return cc
}

// Get returns the cached value for key
func (cc *ContentCache) Get(key string) (interface{}, bool) {
	value, found := cc.cache.Get(key)
	if found {
		metrics.CacheHits.WithLabelValues(contentCacheName).Inc()
		return value, true
	}
	metrics.CacheMisses.WithLabelValues(contentCacheName).Inc()
	return nil, false
}

// Generation returns a token that changes whenever any of tags is invalidated
// or the cache is flushed. Counters only grow, so the sum does too.
func (cc *ContentCache) Generation(tags ...string) uint64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.generationLocked(tags)
}

// Set stores value under key and indexes it by tags
func (cc *ContentCache) Set(key string, value interface{}, tags ...string) {
	cc.mu.Lock()
	cc.storeLocked(key, value, tags)
	cc.mu.Unlock()

	metrics.CacheSize.WithLabelValues(contentCacheName).Set(float64(cc.cache.ItemCount()))
}

// SetIfUnchanged stores value only when none of tags was invalidated since
// generation was taken. It reports whether the value was stored.
func (cc *ContentCache) SetIfUnchanged(key string, value interface{}, generation uint64, tags ...string) bool {
	cc.mu.Lock()
	if cc.generationLocked(tags) != generation {
		cc.mu.Unlock()
		logger.Debug("Content cache store skipped, tags invalidated during fetch",
			zap.String("key", key),
			zap.Strings("tags", tags))
		return false
	}
	cc.storeLocked(key, value, tags)
	cc.mu.Unlock()

	metrics.CacheSize.WithLabelValues(contentCacheName).Set(float64(cc.cache.ItemCount()))
	return true
}

// InvalidateTags removes every entry stored with any of tags and returns how many were removed
func (cc *ContentCache) InvalidateTags(tags ...string) int {
	cc.mu.Lock()
	victims := make(map[string]struct{})
	for _, tag := range tags {
		cc.tagGens[tag]++
		for key := range cc.tagKeys[tag] {
			victims[key] = struct{}{}
		}
		delete(cc.tagKeys, tag)
	}
	cc.mu.Unlock()

	// Delete outside the lock: go-cache runs OnEvicted synchronously
	for key := range victims {
		cc.cache.Delete(key)
	}

	if len(victims) > 0 {
		metrics.CacheInvalidations.WithLabelValues(contentCacheName).Add(float64(len(victims)))
		logger.Debug("Content cache entries invalidated",
			zap.Strings("tags", tags),
			zap.Int("count", len(victims)))
	}
	metrics.CacheSize.WithLabelValues(contentCacheName).Set(float64(cc.cache.ItemCount()))

	return len(victims)
}

// Flush drops every entry
func (cc *ContentCache) Flush() {
	cc.mu.Lock()
	cc.epoch++
	cc.tagKeys = make(map[string]map[string]struct{})
	cc.cache.Flush()
	cc.mu.Unlock()
	metrics.CacheSize.WithLabelValues(contentCacheName).Set(0)
}

// ItemCount returns the number of cached entries, including expired ones not yet swept
func (cc *ContentCache) ItemCount() int {
	return cc.cache.ItemCount()
}

func (cc *ContentCache) generationLocked(tags []string) uint64 {
	gen := cc.epoch
	for _, tag := range tags {
		gen += cc.tagGens[tag]
	}
	return gen
}

// storeLocked indexes key before writing the value so a concurrent
// invalidation never sees a stored value it cannot find.
func (cc *ContentCache) storeLocked(key string, value interface{}, tags []string) {
	for _, tag := range tags {
		keys, ok := cc.tagKeys[tag]
		if !ok {
			keys = make(map[string]struct{})
			cc.tagKeys[tag] = keys
		}
		keys[key] = struct{}{}
	}
	cc.cache.Set(key, value, cc.ttl)
}

// forget removes key from the tag index unless it was stored again after
// being evicted
func (cc *ContentCache) forget(key string) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if _, found := cc.cache.Get(key); found {
		return
	}
	for tag, keys := range cc.tagKeys {
		delete(keys, key)
		if len(keys) == 0 {
			delete(cc.tagKeys, tag)
		}
	}
}
