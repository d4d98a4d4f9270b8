package holiday

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryEntry struct {
	holidays  []Holiday
	expiresAt time.Time
}

// MemoryCache is the in-process default. Suitable for a single instance;
// multi-instance deployments should share a RedisCache instead.
type MemoryCache struct {
	mu    sync.RWMutex
	years map[int]memoryEntry
	now   func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		years: make(map[int]memoryEntry),
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, year int) ([]Holiday, bool) {
	c.mu.RLock()
	entry, ok := c.years[year]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.holidays, true
}

func (c *MemoryCache) Set(_ context.Context, year int, holidays []Holiday, ttl time.Duration) {
	c.mu.Lock()
	c.years[year] = memoryEntry{holidays: holidays, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// RedisCache shares the yearly holiday sets across instances. All failures
// degrade to a cache miss; the oracle then refetches.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, keyPrefix: "roomdesk:holidays:"}
}

func (c *RedisCache) key(year int) string {
	return c.keyPrefix + strconv.Itoa(year)
}

func (c *RedisCache) Get(ctx context.Context, year int) ([]Holiday, bool) {
	raw, err := c.client.Get(ctx, c.key(year)).Bytes()
	if err != nil {
		return nil, false
	}
	var holidays []Holiday
	if err := json.Unmarshal(raw, &holidays); err != nil {
		return nil, false
	}
	return holidays, true
}

func (c *RedisCache) Set(ctx context.Context, year int, holidays []Holiday, ttl time.Duration) {
	raw, err := json.Marshal(holidays)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(year), raw, ttl)
}
