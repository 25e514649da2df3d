package cache

import (
	"context"
	"errors"
	"time"

	"ticket-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is the byte-value store the query layer uses for
// relaxed-consistency listing snapshots.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// InitCache connects to redis. When no address is configured or the server
// cannot be reached, the returned cache is a no-op and every read misses.
func InitCache(config utils.CacheConfig, log *zap.Logger) Cache {
	if config.Addr == "" {
		log.Info("cache disabled: no redis address configured")
		return noopCache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("cache disabled: redis unreachable",
			zap.String("addr", config.Addr),
			zap.Error(err))
		return noopCache{}
	}

	log.Info("redis cache connected", zap.String("addr", config.Addr))
	return &redisCache{
		client: client,
		log:    log.With(zap.String("component", "cache")),
	}
}

type redisCache struct {
	client *redis.Client
	log    *zap.Logger
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// noopCache backs the disabled mode: gets always miss, writes vanish.
type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (noopCache) Set(context.Context, string, []byte, time.Duration) {}

func (noopCache) Delete(context.Context, string) {}
