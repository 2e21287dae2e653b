package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cacheKeyPrefix = "catalog:v1"

// cacheStore is the part of a redis client the cache needs. redis.Cmdable satisfies it.
type cacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
}

// CachedSource keeps listing results of another source in redis for a fixed TTL. Redis failures
// are logged and fall through to the wrapped source; errors from the wrapped source are not cached.
type CachedSource struct {
	next  Source
	store cacheStore
	ttl   time.Duration
	log   zerolog.Logger
}

func NewCachedSource(next Source, store cacheStore, ttl time.Duration, log zerolog.Logger) *CachedSource {
	return &CachedSource{next: next, store: store, ttl: ttl, log: log.With().Str("catalog", "cache").Logger()}
}

func (c *CachedSource) Bracelets(ctx context.Context, q Query) ([]Bracelet, error) {
	var out []Bracelet
	key := cacheKey("bracelets", q)
	if c.load(ctx, key, &out) {
		return out, nil
	}
	out, err := c.next.Bracelets(ctx, q)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, out)
	return out, nil
}

func (c *CachedSource) Charms(ctx context.Context, q Query) ([]Charm, error) {
	var out []Charm
	key := cacheKey("charms", q)
	if c.load(ctx, key, &out) {
		return out, nil
	}
	out, err := c.next.Charms(ctx, q)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, out)
	return out, nil
}

// Invalidate drops every cached listing, e.g. after an import.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	keys, err := c.store.Keys(ctx, cacheKeyPrefix+":*").Result()
	if err != nil {
		return fmt.Errorf("list cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.store.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete cache keys: %w", err)
	}
	return nil
}

func (c *CachedSource) load(ctx context.Context, key string, dst any) bool {
	raw, err := c.store.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache entry unreadable")
		return false
	}
	return true
}

func (c *CachedSource) save(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func cacheKey(kind string, q Query) string {
	category := NormalizeCategory(q.Category)
	if category == "" {
		category = "all"
	}
	return strings.Join([]string{
		cacheKeyPrefix,
		kind,
		category,
		fmt.Sprintf("b%t", q.BestsellersOnly),
		fmt.Sprintf("n%t", q.NewOnly),
	}, ":")
}
