package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResultsCache keeps the last computed ranking in Redis so repeated
// /results reads during judging don't recompute the full aggregation.
// Every mutation of scores, criteria, teams or judges invalidates it.
// All methods are nil-safe: without Redis the caller just recomputes.
type ResultsCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewResultsCache(rdb *redis.Client, key string, ttl time.Duration) *ResultsCache {
	return &ResultsCache{rdb: rdb, key: key, ttl: ttl}
}

func (c *ResultsCache) Get(ctx context.Context, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("WARN: results cache read failed: %v", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("WARN: results cache holds invalid payload, dropping: %v", err)
		c.Invalidate(ctx)
		return false
	}
	return true
}

func (c *ResultsCache) Set(ctx context.Context, value interface{}) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("WARN: failed to marshal results for cache: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		log.Printf("WARN: results cache write failed: %v", err)
	}
}

func (c *ResultsCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		log.Printf("WARN: results cache invalidation failed: %v", err)
	}
}
