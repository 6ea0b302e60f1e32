package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/locator/internal/geocoding"
	"github.com/UnknownOlympus/locator/internal/metrics"
	"github.com/UnknownOlympus/locator/internal/models"
	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cast"
	"golang.org/x/sync/singleflight"
)

const (
	originKeyPrefix  = "locator:origin:"
	originCacheLabel = "origin"

	// DefaultOriginTTL is how long a resolved search address is remembered.
	DefaultOriginTTL = 24 * time.Hour
)

// OriginCache is a geocoding.Provider that remembers resolved search addresses.
// Failed lookups are never stored.
type OriginCache struct {
	next    geocoding.Provider
	client  *redis.Client
	ttl     time.Duration
	log     *slog.Logger
	metrics *metrics.Metrics
	group   singleflight.Group
}

// NewOriginCache wraps next. A nil client only collapses concurrent lookups.
func NewOriginCache(
	next geocoding.Provider,
	client *redis.Client,
	ttl time.Duration,
	log *slog.Logger,
	m *metrics.Metrics,
) *OriginCache {
	if ttl <= 0 {
		ttl = DefaultOriginTTL
	}

	return &OriginCache{next: next, client: client, ttl: ttl, log: log, metrics: m}
}

// OriginKey builds the cache key of a search address. Case and repeated
// whitespace do not change the key.
func OriginKey(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))

	return originKeyPrefix + strconv.FormatUint(xxhash.Sum64String(normalized), 16)
}

// Geocode returns the cached coordinates of address or resolves them with the wrapped provider.
func (c *OriginCache) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	key := OriginKey(address)
	if coords, ok := c.get(ctx, key); ok {
		return coords, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SharedWorkTimeout)
		defer cancel()

		coords, errGeo := c.next.Geocode(lookupCtx, address)
		if errGeo != nil {
			return nil, errGeo
		}
		c.set(lookupCtx, key, coords)
		return coords, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		coords, _ := res.Val.(*models.Coordinates)
		return coords, nil
	}
}

func (c *OriginCache) get(ctx context.Context, key string) (*models.Coordinates, bool) {
	if c.client == nil {
		return nil, false
	}

	fields, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		c.metrics.CacheLookups.WithLabelValues(originCacheLabel, "error").Inc()
		c.log.WarnContext(ctx, "Origin cache get failed", "key", key, "error", err)
		return nil, false
	}
	if len(fields) == 0 {
		c.metrics.CacheLookups.WithLabelValues(originCacheLabel, "miss").Inc()
		return nil, false
	}

	lat, errLat := cast.ToFloat64E(fields["lat"])
	lng, errLng := cast.ToFloat64E(fields["lng"])
	if err = errors.Join(errLat, errLng); err != nil {
		c.metrics.CacheLookups.WithLabelValues(originCacheLabel, "error").Inc()
		c.log.WarnContext(ctx, "Origin cache entry is malformed", "key", key, "error", err)
		return nil, false
	}

	c.metrics.CacheLookups.WithLabelValues(originCacheLabel, "hit").Inc()

	return &models.Coordinates{Latitude: lat, Longitude: lng}, true
}

func (c *OriginCache) set(ctx context.Context, key string, coords *models.Coordinates) {
	if c.client == nil || coords == nil {
		return
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64),
			"lng", strconv.FormatFloat(coords.Longitude, 'f', -1, 64),
		)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		c.log.WarnContext(ctx, "Origin cache set failed", "key", key, "error", err)
	}
}
