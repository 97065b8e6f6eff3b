package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"tokoku/gateway/internal/domain"
)

const (
	productsKey = "snapshot:products"
	stockKey    = "snapshot:stock"
)

type RedisSnapshotCache struct {
	client *redis.Client
}

func NewRedisSnapshotCache(addr string, password string, db int) *RedisSnapshotCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisSnapshotCache{client: client}
}

func (c *RedisSnapshotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}

func (c *RedisSnapshotCache) GetProducts(ctx context.Context) ([]domain.Product, bool, error) {
	var products []domain.Product
	ok, err := c.get(ctx, productsKey, &products)
	return products, ok, err
}

func (c *RedisSnapshotCache) SetProducts(ctx context.Context, products []domain.Product, ttl time.Duration) error {
	return c.set(ctx, productsKey, products, ttl)
}

func (c *RedisSnapshotCache) GetStock(ctx context.Context) ([]domain.StockLevel, bool, error) {
	var levels []domain.StockLevel
	ok, err := c.get(ctx, stockKey, &levels)
	return levels, ok, err
}

func (c *RedisSnapshotCache) SetStock(ctx context.Context, levels []domain.StockLevel, ttl time.Duration) error {
	return c.set(ctx, stockKey, levels, ttl)
}

func (c *RedisSnapshotCache) InvalidateStock(ctx context.Context) error {
	return c.client.Del(ctx, stockKey).Err()
}

func (c *RedisSnapshotCache) get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisSnapshotCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
