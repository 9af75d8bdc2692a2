package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flipperzap/internal/logging"
	"github.com/flipperzap/internal/models"
)

// ScanCache is a cache-aside layer for scan reads. Every scan write must
// invalidate its entry; reads repopulate on the next miss. A nil *ScanCache
// is valid and disables caching.
type ScanCache struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewScanCache creates a scan cache over the given Redis connection
func NewScanCache(redis *RedisCache, ttl time.Duration) *ScanCache {
	return &ScanCache{redis: redis, ttl: ttl}
}

func scanKey(id string) string {
	return fmt.Sprintf("scan:%s", id)
}

// Get returns the cached scan, or false on miss or cache error
func (c *ScanCache) Get(ctx context.Context, id string) (*models.Scan, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.redis.Get(ctx, scanKey(id))
	if err != nil {
		if err != redis.Nil {
			logging.FromContext(ctx).WithError(err).Warn("scan cache read failed")
		}
		return nil, false
	}

	var scan models.Scan
	if err := json.Unmarshal([]byte(raw), &scan); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("scan cache entry corrupt, dropping")
		_ = c.redis.Del(ctx, scanKey(id))
		return nil, false
	}

	return &scan, true
}

// Set stores the scan. Cache errors are logged and swallowed; the store is
// the source of truth.
func (c *ScanCache) Set(ctx context.Context, scan *models.Scan) {
	if c == nil || scan == nil {
		return
	}

	raw, err := json.Marshal(scan)
	if err != nil {
		return
	}

	if err := c.redis.Set(ctx, scanKey(scan.ID), raw, c.ttl); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("scan cache write failed")
	}
}

// Invalidate drops the cached entry for a scan id
func (c *ScanCache) Invalidate(ctx context.Context, id string) {
	if c == nil {
		return
	}

	if err := c.redis.Del(ctx, scanKey(id)); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("scan cache invalidation failed")
	}
}
