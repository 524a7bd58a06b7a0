package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// authRedis 是登录限流与刷新令牌黑名单用到的 Redis 命令子集。
type authRedis interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// incrWithTTL 自增计数，首次创建时设置过期时间。
func incrWithTTL(ctx context.Context, client authRedis, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}
