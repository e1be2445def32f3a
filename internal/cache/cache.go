// Package cache provides caching for bundle payloads and query results.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Config contains cache configuration.
type Config struct {
	PayloadCacheSizeMB int
	PayloadTTL         time.Duration
	QueryCacheSize     int
}

// Manager manages the bundle payload and query caches.
type Manager struct {
	payloadCache *bigcache.BigCache
	queryCache   *lru.Cache[string, []byte]
}

// NewManager creates a new cache manager.
func NewManager(cfg Config) (*Manager, error) {
	payloadCacheConfig := bigcache.Config{
		Shards:             256,
		LifeWindow:         cfg.PayloadTTL,
		CleanWindow:        cfg.PayloadTTL / 2,
		MaxEntriesInWindow: 1000,
		MaxEntrySize:       16 * 1024 * 1024, // coords.bin for ~1.4M points
		HardMaxCacheSize:   cfg.PayloadCacheSizeMB,
		Verbose:            false,
	}

	payloadCache, err := bigcache.New(context.Background(), payloadCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create payload cache: %w", err)
	}

	queryCache, err := lru.New[string, []byte](cfg.QueryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create query cache: %w", err)
	}

	return &Manager{
		payloadCache: payloadCache,
		queryCache:   queryCache,
	}, nil
}

// GetPayload retrieves a bundle file payload from cache.
func (m *Manager) GetPayload(key string) ([]byte, bool) {
	data, err := m.payloadCache.Get(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetPayload stores a bundle file payload in cache.
func (m *Manager) SetPayload(key string, data []byte) error {
	return m.payloadCache.Set(key, data)
}

// GetQuery retrieves a query result from cache.
func (m *Manager) GetQuery(key string) ([]byte, bool) {
	return m.queryCache.Get(key)
}

// SetQuery stores a query result in cache.
func (m *Manager) SetQuery(key string, data []byte) {
	m.queryCache.Add(key, data)
}

// PayloadKey generates a cache key for a bundle file.
func PayloadKey(dir, file string) string {
	return fmt.Sprintf("payload:%s:%s", dir, file)
}

// Stats returns cache statistics.
func (m *Manager) Stats() map[string]interface{} {
	return map[string]interface{}{
		"payload_cache_len": m.payloadCache.Len(),
		"payload_cache_cap": m.payloadCache.Capacity(),
		"query_cache_len":   m.queryCache.Len(),
	}
}

// Close closes the cache manager.
func (m *Manager) Close() error {
	return m.payloadCache.Close()
}
