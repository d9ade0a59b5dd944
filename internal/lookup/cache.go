package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key identifies one cached lookup.
type Key struct {
	Text   string
	Type   string
	Domain string
}

func (k Key) String() string {
	return fmt.Sprintf("lookup:%s:%s:%s", k.Domain, k.Type, k.Text)
}

// Cache stores lookup results with a TTL. Entries are idempotent, so
// last-writer-wins under concurrent insert is acceptable.
type Cache interface {
	Get(ctx context.Context, key Key) (*Result, bool)
	Set(ctx context.Context, key Key, result *Result)
}

type memoryEntry struct {
	result    *Result
	createdAt time.Time
}

// MemoryCache is the process-local backend.
type MemoryCache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[Key]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[Key]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, key Key) (*Result, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(e.createdAt) > c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed.
		if cur, ok := c.entries[key]; ok && time.Since(cur.createdAt) > c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.result, true
}

func (c *MemoryCache) Set(_ context.Context, key Key, result *Result) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{result: result, createdAt: time.Now()}
	c.mu.Unlock()
}

// Len reports the live entry count (expired entries may still be counted).
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisCache is the shared backend; expiry is handled server-side.
type RedisCache struct {
	ttl    time.Duration
	client *redis.Client
}

func NewRedisCache(addr string, db int, ttl time.Duration) *RedisCache {
	return &RedisCache{
		ttl:    ttl,
		client: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
	}
}

func (c *RedisCache) Get(ctx context.Context, key Key) (*Result, bool) {
	data, err := c.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		return nil, false
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, false
	}
	return &r, true
}

func (c *RedisCache) Set(ctx context.Context, key Key, result *Result) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.client.Set(ctx, key.String(), data, c.ttl)
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
