// Package cache keeps encoded feed documents and resolved search origins in Redis
// so repeated map loads skip the snapshot read, filter evaluation and geocoder calls.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/UnknownOlympus/locator/internal/metrics"
	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	feedKeyPrefix  = "locator:feed:"
	feedCacheLabel = "feed"

	// DefaultFeedTTL is how long an encoded feed stays cached.
	DefaultFeedTTL = time.Minute

	pingTimeout = 5 * time.Second

	// SharedWorkTimeout bounds a build or lookup shared by concurrent callers.
	SharedWorkTimeout = 30 * time.Second
)

// Connect creates a Redis client and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// BuildFunc produces an encoded feed on a cache miss.
type BuildFunc func(ctx context.Context) ([]byte, error)

// FeedCache stores encoded feeds. A nil Redis client turns it into a pass-through
// that still collapses concurrent builds of the same key.
type FeedCache struct {
	client  *redis.Client
	ttl     time.Duration
	log     *slog.Logger
	metrics *metrics.Metrics
	group   singleflight.Group
}

// NewFeedCache creates a feed cache backed by client.
func NewFeedCache(client *redis.Client, ttl time.Duration, log *slog.Logger, m *metrics.Metrics) *FeedCache {
	if ttl <= 0 {
		ttl = DefaultFeedTTL
	}

	return &FeedCache{client: client, ttl: ttl, log: log, metrics: m}
}

// Key builds the cache key of a feed variant. The variant string is hashed so
// user supplied addresses never end up verbatim in key names.
func Key(locatorID int64, format, variant string) string {
	return feedKeyPrefix + strconv.FormatInt(locatorID, 10) + ":" + format + ":" +
		strconv.FormatUint(xxhash.Sum64String(variant), 16)
}

// Fetch returns the cached body for key, or builds, stores and returns it.
// The boolean reports a cache hit. Redis failures are logged and treated as misses;
// build errors are returned and never cached.
func (c *FeedCache) Fetch(ctx context.Context, key string, build BuildFunc) ([]byte, bool, error) {
	if body, ok := c.get(ctx, key); ok {
		return body, true, nil
	}

	// The shared build must outlive any single caller; each caller only stops waiting.
	ch := c.group.DoChan(key, func() (any, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SharedWorkTimeout)
		defer cancel()

		body, errBuild := build(buildCtx)
		if errBuild != nil {
			return nil, errBuild
		}
		c.set(buildCtx, key, body)
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		body, _ := res.Val.([]byte)
		return body, false, nil
	}
}

// InvalidateLocator drops every cached feed of a locator.
func (c *FeedCache) InvalidateLocator(ctx context.Context, locatorID int64) {
	if c.client == nil {
		return
	}

	pattern := feedKeyPrefix + strconv.FormatInt(locatorID, 10) + ":*"
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.log.WarnContext(ctx, "Feed cache scan failed", "locator", locatorID, "error", err)
			return
		}
		if len(keys) > 0 {
			if err = c.client.Del(ctx, keys...).Err(); err != nil {
				c.log.WarnContext(ctx, "Feed cache delete failed", "locator", locatorID, "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.log.DebugContext(ctx, "Feed cache invalidated", "locator", locatorID, "deleted", deleted)
}

func (c *FeedCache) get(ctx context.Context, key string) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}

	body, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.metrics.CacheLookups.WithLabelValues(feedCacheLabel, "miss").Inc()
		return nil, false
	case err != nil:
		c.metrics.CacheLookups.WithLabelValues(feedCacheLabel, "error").Inc()
		c.log.WarnContext(ctx, "Feed cache get failed", "key", key, "error", err)
		return nil, false
	}

	c.metrics.CacheLookups.WithLabelValues(feedCacheLabel, "hit").Inc()

	return body, true
}

func (c *FeedCache) set(ctx context.Context, key string, body []byte) {
	if c.client == nil {
		return
	}

	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "Feed cache set failed", "key", key, "error", err)
	}
}
