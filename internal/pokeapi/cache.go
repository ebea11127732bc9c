package pokeapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/trainerlog/internal/roster"
)

const cacheKeyPrefix = "trainerlog:attrs:"

// Cache is a write-through Redis cache for resolved attribute blocks,
// keyed by canonical creature name. Every failure path is treated as a
// cache miss; the cache never makes an enrichment run fail.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache creates a Cache over the given Redis client.
//
// Precondition: rdb and logger must be non-nil; ttl must be > 0.
func NewCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

// Get returns the cached attribute block for a canonical name, if any.
// Default blocks are never cached, so a hit always carries real data.
func (c *Cache) Get(ctx context.Context, canonicalName string) (roster.Enrichment, bool) {
	payload, err := c.rdb.Get(ctx, cacheKeyPrefix+canonicalName).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("attribute cache read failed",
				zap.String("name", canonicalName),
				zap.Error(err),
			)
		}
		return roster.Enrichment{}, false
	}

	var attrs roster.Enrichment
	if err := json.Unmarshal(payload, &attrs); err != nil {
		c.logger.Debug("attribute cache entry malformed, ignoring",
			zap.String("name", canonicalName),
			zap.Error(err),
		)
		return roster.Enrichment{}, false
	}
	return attrs, true
}

// Put stores a resolved attribute block. Default blocks are skipped so
// a transient lookup failure is retried on the next run.
func (c *Cache) Put(ctx context.Context, canonicalName string, attrs roster.Enrichment) {
	if attrs.IsDefault() {
		return
	}
	payload, err := json.Marshal(attrs)
	if err != nil {
		c.logger.Debug("marshalling attribute cache entry failed",
			zap.String("name", canonicalName),
			zap.Error(err),
		)
		return
	}
	if err := c.rdb.Set(ctx, cacheKeyPrefix+canonicalName, payload, c.ttl).Err(); err != nil {
		c.logger.Debug("attribute cache write failed",
			zap.String("name", canonicalName),
			zap.Error(err),
		)
	}
}
