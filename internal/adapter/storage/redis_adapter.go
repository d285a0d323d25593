package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zaiko-app/zaiko/internal/port"
)

const (
	stockKeyPrefix = "stock:"
	stockTTL       = 5 * time.Minute
)

// RedisAdapter caches derived per-item stock. The coordinator drops the
// affected key synchronously with every commit, so the TTL is only a
// backstop against missed invalidations.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

var _ port.CacheRepository = (*RedisAdapter)(nil)

func stockKey(teamID int64, itemCode string) string {
	return fmt.Sprintf("%s%d:%s", stockKeyPrefix, teamID, itemCode)
}

func (r *RedisAdapter) GetStock(ctx context.Context, teamID int64, itemCode string) (int64, bool, error) {
	stock, err := r.client.Get(ctx, stockKey(teamID, itemCode)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return stock, true, nil
}

func (r *RedisAdapter) SetStock(ctx context.Context, teamID int64, itemCode string, stock int64) error {
	return r.client.Set(ctx, stockKey(teamID, itemCode), stock, stockTTL).Err()
}

func (r *RedisAdapter) InvalidateStock(ctx context.Context, teamID int64, itemCode string) error {
	return r.client.Del(ctx, stockKey(teamID, itemCode)).Err()
}
