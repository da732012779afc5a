package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dashboardKeyFmt = "stats:%s:dashboard:%s"
	monthlyKeyFmt   = "stats:%s:monthly:%d"
	tenantPattern   = "stats:%s:*"
)

// Cache is a thin wrapper over a Redis client. A Cache built with a nil
// client is valid and behaves as a permanent miss, so callers never need to
// check whether Redis is configured.
type Cache struct {
	client *redis.Client
}

// New wraps an existing client; client may be nil
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Connect dials Redis at addr and pings it. An empty addr disables caching.
func Connect(ctx context.Context, addr, password string, db int) (*Cache, error) {
	if addr == "" {
		return New(nil), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return New(nil), err
	}
	return New(client), nil
}

// Enabled reports whether a Redis client is attached
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Ping checks the connection; a disabled cache is always healthy
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// Get returns cached data for a key
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[Redis] get %s: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

// Set stores data with a TTL
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("[Redis] set %s: %v", key, err)
	}
}

// InvalidatePattern removes all keys matching a glob pattern
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) {
	if !c.Enabled() {
		return
	}
	var keys []string
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[Redis] scan %s: %v", pattern, err)
		return
	}
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}

// DashboardKey is the cache key for a tenant's dashboard stats over a range label
func DashboardKey(userID, rangeLabel string) string {
	return fmt.Sprintf(dashboardKeyFmt, userID, rangeLabel)
}

// MonthlyKey is the cache key for a tenant's monthly reports of one year
func MonthlyKey(userID string, year int) string {
	return fmt.Sprintf(monthlyKeyFmt, userID, year)
}

// InvalidateTenant clears every cached report for a user
func (c *Cache) InvalidateTenant(ctx context.Context, userID string) {
	c.InvalidatePattern(ctx, fmt.Sprintf(tenantPattern, userID))
}
