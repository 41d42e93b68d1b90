// Package rediscache implements the rarity.Cache interface on Redis.
// Entries are written without a TTL: rarity stays served from cache until a
// caller explicitly recomputes it.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"awardkit/core"
)

// Config holds Redis connection configuration
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Cache stores one float per (code, tier) under award:rarity:{code}:{tier}.
type Cache struct {
	client *redis.Client
}

// New creates a Redis-backed rarity cache with the provided configuration.
func New(config Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// NewWithClient creates a Cache using an existing Redis client (useful for testing)
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

func rarityKey(code core.AwardCode, tier int) string {
	return fmt.Sprintf("award:rarity:%s:%d", code, tier)
}

// Get reads the cached rarity. A missing key is a miss, not an error.
func (c *Cache) Get(ctx context.Context, code core.AwardCode, tier int) (float64, bool, error) {
	pct, err := c.client.Get(ctx, rarityKey(code, tier)).Float64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read rarity: %w", err)
	}
	return pct, true, nil
}

// Set writes the rarity with no expiry.
func (c *Cache) Set(ctx context.Context, code core.AwardCode, tier int, pct float64) error {
	if err := c.client.Set(ctx, rarityKey(code, tier), pct, 0).Err(); err != nil {
		return fmt.Errorf("failed to cache rarity: %w", err)
	}
	return nil
}
