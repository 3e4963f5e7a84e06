// Package cache provides a Redis-backed store for provider search results.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookly/internal/config"
	"github.com/mrlokans/bookly/internal/entities"
)

const keyPrefix = "bookly:search:"

// SearchCache keeps search results in Redis for a fixed TTL.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSearchCache(cfg config.Redis) *SearchCache {
	return &SearchCache{
		client: redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     10,
			MinIdleConns: 2,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
		ttl: cfg.SearchCacheTTL,
	}
}

// Connect verifies the server is reachable.
func (c *SearchCache) Connect(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	log.Info().Str("addr", c.client.Options().Addr).Msg("connected to redis")
	return nil
}

// HealthCheck pings the server with a short deadline.
func (c *SearchCache) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Get returns the cached books for key. A miss is not an error.
func (c *SearchCache) Get(ctx context.Context, key string) ([]entities.Book, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var books []entities.Book
	if err := json.Unmarshal(raw, &books); err != nil {
		return nil, false, fmt.Errorf("decode cached search: %w", err)
	}
	return books, true, nil
}

// Set stores books under key. A zero TTL keeps the entry until evicted.
func (c *SearchCache) Set(ctx context.Context, key string, books []entities.Book) error {
	raw, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("encode search: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *SearchCache) Close() error {
	return c.client.Close()
}
