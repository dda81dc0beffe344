package suggest

import (
	"strconv"
	"strings"
	"sync"
)

// HotCache keeps the results of recent lookups in front of a Suggester.
// Entries are keyed by strategy, limit and trimmed term. Spellings that only
// normalize alike get separate entries since their exact-tier order differs. The least recently used entry is evicted
// once maxEntries is reached.
//
// A HotCache is opt-in. Unlike a bare Index, every lookup through it takes a
// mutex and updates shared maps, and eviction scans all entries.
type HotCache struct {
	next        Suggester
	results     map[string][]Candidate
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

var _ Suggester = (*HotCache)(nil)

// NewHotCache wraps next with a result cache of up to maxEntries lookups.
func NewHotCache(next Suggester, maxEntries int) *HotCache {
	return &HotCache{
		next:       next,
		results:    make(map[string][]Candidate, maxEntries),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

func (hc *HotCache) Suggest(term string, k int) ([]Candidate, error) {
	return hc.Lookup(term, k, StrategyGuess)
}

// Lookup answers from the cache when possible. Errors are never cached.
// The returned slice is a copy and may be modified by the caller.
func (hc *HotCache) Lookup(term string, k int, strategy Strategy) ([]Candidate, error) {
	if k <= 0 {
		k = DefaultLimit
	}
	key := string(strategy) + "\x00" + strconv.Itoa(k) + "\x00" + strings.TrimSpace(term)

	hc.mu.Lock()
	if cached, ok := hc.results[key]; ok {
		hc.hits++
		hc.markAccessed(key)
		hc.mu.Unlock()
		return append([]Candidate(nil), cached...), nil
	}
	hc.misses++
	hc.mu.Unlock()

	result, err := hc.next.Lookup(term, k, strategy)
	if err != nil {
		return nil, err
	}

	hc.mu.Lock()
	defer hc.mu.Unlock()
	if _, ok := hc.results[key]; !ok && len(hc.results) >= hc.maxEntries {
		hc.evictLRU()
	}
	hc.results[key] = append([]Candidate(nil), result...)
	hc.markAccessed(key)
	return result, nil
}

// Stats merges the cache counters into the wrapped suggester's statistics.
func (hc *HotCache) Stats() map[string]int {
	stats := hc.next.Stats()

	hc.mu.Lock()
	defer hc.mu.Unlock()
	stats["cacheEntries"] = len(hc.results)
	stats["cacheMaxEntries"] = hc.maxEntries
	stats["cacheHits"] = int(hc.hits)
	stats["cacheMisses"] = int(hc.misses)
	return stats
}

func (hc *HotCache) markAccessed(key string) {
	hc.accessCount++
	hc.accessTime[key] = hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldestKey string
	var oldestTime int64 = 9223372036854775807

	for key, accessTime := range hc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(hc.results, oldestKey)
		delete(hc.accessTime, oldestKey)
	}
}
