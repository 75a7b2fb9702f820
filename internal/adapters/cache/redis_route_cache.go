package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/platform/obs"
)

// RedisRouteCache is a Redis-backed RouteCache for deployments where several
// service instances must share optimization results. Entries are JSON
// payloads with a server-side TTL; invalidation scans the tour's key space.
type RedisRouteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRouteCache(rdb *redis.Client, ttl time.Duration) (*RedisRouteCache, error) {
	if rdb == nil {
		return nil, errors.New("redis route cache: client is nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRouteCache{rdb: rdb, ttl: ttl}, nil
}

func (c *RedisRouteCache) Get(ctx context.Context, tourID int64, cons domain.Constraints) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	raw, err := c.rdb.Get(ctx, routeKey(tourID, cons)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get route cache: tour %d: %w", tourID, err)
	}

	var result domain.RouteResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("get route cache: decode entry for tour %d: %w", tourID, err)
	}
	return &result, nil
}

func (c *RedisRouteCache) Set(ctx context.Context, tourID int64, cons domain.Constraints, result *domain.RouteResult) error {
	if result == nil {
		return nil
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("set route cache: encode result for tour %d: %w", tourID, err)
	}

	if err := c.rdb.Set(ctx, routeKey(tourID, cons), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set route cache: tour %d: %w", tourID, err)
	}
	return nil
}

// Invalidate removes all entries for the tour regardless of constraints.
func (c *RedisRouteCache) Invalidate(ctx context.Context, tourID int64) (err error) {
	defer obs.Time(ctx, "route.cache.Invalidate")(&err)

	return c.deleteByPattern(ctx, tourKeyPattern(tourID))
}

func (c *RedisRouteCache) Clear(ctx context.Context) error {
	return c.deleteByPattern(ctx, "route:*")
}

func (c *RedisRouteCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()

	keys := make([]string, 0, 16)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("route cache: scan %q: %w", pattern, err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("route cache: delete %d keys: %w", len(keys), err)
	}
	return nil
}
