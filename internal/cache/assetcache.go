// Package cache provides the process-wide asset-existence cache that
// style.Finish consults when resolving icon/shield/fill image paths: a
// get-or-insert cache over filesystem stat results, so repeated renders
// against the same stylesheet re-stat a path only after it has been evicted
// from the bounded LRU or the cache has been cleared.
package cache

/*
 Copyright 2026 The maptile-engine Authors.
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at
      http://www.apache.org/licenses/LICENSE-2.0
 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

import (
	"os"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
)

// AssetCache caches the existence of resolved asset paths.
type AssetCache struct {
	cache   *lru.Cache[string, bool]
	enabled bool
	mu      sync.Mutex // guards the check-then-stat-then-store sequence in Exists

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// Stats reports cache hit/miss/eviction counters.
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Size      int     `json:"size"`
	HitRate   float64 `json:"hit_rate"`
}

// NewAssetCache creates an asset cache holding up to maxItems paths.
func NewAssetCache(maxItems int) (*AssetCache, error) {
	ac := &AssetCache{enabled: true}

	c, err := lru.NewWithEvict(maxItems, ac.onEvict)
	if err != nil {
		return nil, err
	}
	ac.cache = c

	log.Infof("asset cache: initialized max_items=%d", maxItems)
	return ac, nil
}

// NewDisabledAssetCache returns a cache that performs a fresh os.Stat on
// every call and never caches.
func NewDisabledAssetCache() *AssetCache {
	return &AssetCache{enabled: false}
}

// Exists reports whether path exists on disk, consulting (and populating)
// the cache. Under concurrent calls for the same uncached path, the stat
// runs at most once: later callers block on mu and then observe the cache
// hit left behind by the caller that won the race.
func (ac *AssetCache) Exists(path string) bool {
	if !ac.enabled {
		return statExists(path)
	}

	ac.mu.Lock()
	defer ac.mu.Unlock()

	if exists, ok := ac.cache.Get(path); ok {
		ac.hits.Add(1)
		log.Debugf("asset cache HIT: %s", path)
		return exists
	}

	ac.misses.Add(1)
	exists := statExists(path)
	ac.cache.Add(path, exists)
	log.Debugf("asset cache SET: %s exists=%v", path, exists)
	return exists
}

func statExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (ac *AssetCache) onEvict(key string, value bool) {
	ac.evictions.Add(1)
	log.Debugf("asset cache EVICT: %s", key)
}

// Clear removes every cached entry.
func (ac *AssetCache) Clear() {
	if !ac.enabled {
		return
	}
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.cache.Purge()
	log.Info("asset cache: cleared")
}

// Stats returns current cache statistics.
func (ac *AssetCache) Stats() Stats {
	if !ac.enabled {
		return Stats{}
	}

	hits := ac.hits.Load()
	misses := ac.misses.Load()
	total := hits + misses

	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100.0
	}

	return Stats{
		Hits:      hits,
		Misses:    misses,
		Evictions: ac.evictions.Load(),
		Size:      ac.cache.Len(),
		HitRate:   hitRate,
	}
}

// Enabled returns whether the cache is enabled.
func (ac *AssetCache) Enabled() bool {
	return ac.enabled
}
