package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shopadmin/backend/internal/domain/inventory"
)

const defaultScanBatchSize = 100

// RedisConfig holds Redis connection settings for the cache layer
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisInventoryCache implements inventory.AvailabilityCache using Redis
type RedisInventoryCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	logger     *zap.Logger
}

// RedisInventoryCacheOption is a functional option for configuring the cache
type RedisInventoryCacheOption func(*RedisInventoryCache)

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisInventoryCacheOption {
	return func(c *RedisInventoryCache) {
		c.logger = logger
	}
}

// NewRedisInventoryCache creates a new Redis-based availability cache
func NewRedisInventoryCache(cfg RedisConfig, opts ...RedisInventoryCacheOption) (*RedisInventoryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisInventoryCache{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisInventoryCacheWithClient creates a cache with an existing Redis client.
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisInventoryCacheWithClient(client *redis.Client, opts ...RedisInventoryCacheOption) *RedisInventoryCache {
	cache := &RedisInventoryCache{
		client:     client,
		ownsClient: false, // Client is shared, don't close it
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// Get retrieves an availability payload from cache. A miss returns (nil, nil);
// an error means the store itself is unreachable.
func (c *RedisInventoryCache) Get(ctx context.Context, key string) (*inventory.InventoryInfo, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Availability cache miss", zap.String("key", key))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability from cache: %w", err)
	}

	var info inventory.InventoryInfo
	if err := json.Unmarshal(data, &info); err != nil {
		// Treat undecodable entries as a miss and drop them
		c.logger.Warn("Dropping corrupt availability cache entry",
			zap.String("key", key),
			zap.Error(err))
		c.client.Del(ctx, key)
		return nil, nil
	}

	return &info, nil
}

// Set stores an availability payload with the given TTL
func (c *RedisInventoryCache) Set(ctx context.Context, key string, info *inventory.InventoryInfo, ttl time.Duration) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal availability payload: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set availability in cache: %w", err)
	}

	return nil
}

// Delete removes the given keys
func (c *RedisInventoryCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete availability cache keys: %w", err)
	}
	return nil
}

// Flush removes every inventory cache entry. Uses SCAN rather than KEYS so
// a large keyspace does not block the server.
func (c *RedisInventoryCache) Flush(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, "inventory:product:*", defaultScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan availability cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete availability cache keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close closes the Redis client if this cache owns it
func (c *RedisInventoryCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

var _ inventory.AvailabilityCache = (*RedisInventoryCache)(nil)
