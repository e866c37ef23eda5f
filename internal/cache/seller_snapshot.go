package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SellerSnapshotCache keeps the current-seller-info snapshot in Redis. Cache
// failures are logged and swallowed; the database stays authoritative.
type SellerSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSellerSnapshotCache builds the cache. A nil client disables caching.
func NewSellerSnapshotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SellerSnapshotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SellerSnapshotCache{client: client, ttl: ttl, logger: logger}
}

func snapshotKey(sellerAccountID int64) string {
	return fmt.Sprintf("seller:current:%d", sellerAccountID)
}

// Get loads a cached snapshot into dest, reporting whether it was present.
func (c *SellerSnapshotCache) Get(ctx context.Context, sellerAccountID int64, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, snapshotKey(sellerAccountID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("seller snapshot cache get failed", zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("seller snapshot cache decode failed", zap.Error(err))
		return false
	}
	return true
}

// Set stores a snapshot with the configured TTL.
func (c *SellerSnapshotCache) Set(ctx context.Context, sellerAccountID int64, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("seller snapshot cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, snapshotKey(sellerAccountID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("seller snapshot cache set failed", zap.Error(err))
	}
}

// Invalidate drops the snapshot after a revision commits.
func (c *SellerSnapshotCache) Invalidate(ctx context.Context, sellerAccountID int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, snapshotKey(sellerAccountID)).Err(); err != nil {
		c.logger.Warn("seller snapshot cache invalidate failed", zap.Error(err))
	}
}
