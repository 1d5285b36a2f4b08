// Package cache provides an optional redis read-through cache for
// single-product lookups. The catalogue works identically without it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kasirkita/internal/config"
	"kasirkita/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProductCache caches products by ID.
type ProductCache interface {
	// Get returns the cached product, or nil on miss.
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Set stores a product under its ID.
	Set(ctx context.Context, product *model.Product) error

	// Invalidate drops a product from the cache. Called on product
	// update and delete, and on stock movement.
	Invalidate(ctx context.Context, id uuid.UUID) error
}

// NewRedisProductCache connects to redis and returns a product cache,
// verifying connectivity with a ping.
func NewRedisProductCache(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (ProductCache, error) {
	logger = logger.With().Str("component", "product-cache").Logger()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("addr", cfg.Address()).Dur("ttl", cfg.TTL).Msg("redis product cache initialised")

	return &redisProductCache{
		client: client,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

type redisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}

func (c *redisProductCache) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read product from cache: %w", err)
	}

	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		// A corrupt entry behaves like a miss.
		c.logger.Warn().Err(err).Str("product_id", id.String()).Msg("dropping unreadable cache entry")
		c.client.Del(ctx, productKey(id))
		return nil, nil
	}

	return &p, nil
}

func (c *redisProductCache) Set(ctx context.Context, product *model.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product for cache: %w", err)
	}

	if err := c.client.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write product to cache: %w", err)
	}

	return nil
}

func (c *redisProductCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached product: %w", err)
	}
	return nil
}

// NewNoopProductCache returns a cache that never hits. Used when redis
// is disabled.
func NewNoopProductCache() ProductCache {
	return noopProductCache{}
}

type noopProductCache struct{}

func (noopProductCache) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return nil, nil
}

func (noopProductCache) Set(ctx context.Context, product *model.Product) error { return nil }

func (noopProductCache) Invalidate(ctx context.Context, id uuid.UUID) error { return nil }
