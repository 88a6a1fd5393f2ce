package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cached marker for ids the directory does not know.
const notFoundMarker = "N/A"

// RedisDirectoryCache is a read-through FleetDirectory cache stored in redis as JSON strings.
type RedisDirectoryCache struct {
	Next  ports.FleetDirectory
	Cache *cache.Cache[string]
}

func NewRedisDirectoryCache(client *redis.Client, next ports.FleetDirectory, ttl time.Duration) *RedisDirectoryCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &RedisDirectoryCache{
		Next:  next,
		Cache: cache.New[string](redisStore),
	}
}

func (c *RedisDirectoryCache) DriverSummary(ctx context.Context, id string) (_ *domain.DriverSummary, err error) {
	defer obs.Time(ctx, "directory.cache.DriverSummary")(&err)

	return readThrough(ctx, c, "fleet:driver:"+id, func(ctx context.Context) (*domain.DriverSummary, error) {
		return c.Next.DriverSummary(ctx, id)
	})
}

func (c *RedisDirectoryCache) VehicleSummary(ctx context.Context, id string) (_ *domain.VehicleSummary, err error) {
	defer obs.Time(ctx, "directory.cache.VehicleSummary")(&err)

	return readThrough(ctx, c, "fleet:vehicle:"+id, func(ctx context.Context) (*domain.VehicleSummary, error) {
		return c.Next.VehicleSummary(ctx, id)
	})
}

// Invalidate drops cached entries for a vehicle and a driver. Empty ids are ignored.
func (c *RedisDirectoryCache) Invalidate(ctx context.Context, vehicleID, driverID string) error {
	var errs []error
	if vehicleID != "" {
		errs = append(errs, c.Cache.Delete(ctx, "fleet:vehicle:"+vehicleID))
	}
	if driverID != "" {
		errs = append(errs, c.Cache.Delete(ctx, "fleet:driver:"+driverID))
	}
	return errors.Join(errs...)
}

func readThrough[T any](
	ctx context.Context,
	c *RedisDirectoryCache,
	key string,
	load func(context.Context) (*T, error),
) (*T, error) {
	if cached, err := c.Cache.Get(ctx, key); err == nil {
		if cached == notFoundMarker {
			return nil, domain.ErrNotFound
		}

		var v T
		if err := json.Unmarshal([]byte(cached), &v); err == nil {
			return &v, nil
		}
		log.Warn().Str("key", key).Msg("Discarding unreadable directory cache entry")
	}

	v, err := load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		c.set(ctx, key, notFoundMarker)
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("directory cache %q: %w", key, err)
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("directory cache %q: encode: %w", key, err)
	}
	c.set(ctx, key, string(encoded))

	return v, nil
}

// set is best effort; a cache write failure never fails the lookup.
func (c *RedisDirectoryCache) set(ctx context.Context, key, value string) {
	if err := c.Cache.Set(ctx, key, value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to write directory cache")
	}
}
