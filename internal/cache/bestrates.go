// Package cache publishes the latest best quote per product to Redis so
// dashboards and other consumers can read current rates without parsing
// the history file.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pmehta/ratewatch/internal/rates"
)

// BestRateRecord is the cached value: the winning option for a product
// and the snapshot it came from.
type BestRateRecord struct {
	Option    rates.RateOption `json:"option"`
	CheckedAt string           `json:"checked_at"`
}

// BestRateCache stores the best option per product.
type BestRateCache interface {
	Get(ctx context.Context, product string) (*BestRateRecord, bool, error)
	Set(ctx context.Context, product string, record BestRateRecord) error
	Close() error
}

type redisBestRateCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisBestRateCache builds a cache keyed by product name.
func NewRedisBestRateCache(addr, password string, db int, ttl time.Duration, prefix string) (BestRateCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	if prefix == "" {
		prefix = "best_rate"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisBestRateCache{client: client, ttl: ttl, prefix: prefix}, nil
}

func (c *redisBestRateCache) key(product string) string {
	return fmt.Sprintf("%s:%s", c.prefix, product)
}

func (c *redisBestRateCache) Get(ctx context.Context, product string) (*BestRateRecord, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, c.key(product)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var record BestRateRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, err
	}
	return &record, true, nil
}

func (c *redisBestRateCache) Set(ctx context.Context, product string, record BestRateRecord) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(product), payload, c.ttl).Err()
}

func (c *redisBestRateCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
