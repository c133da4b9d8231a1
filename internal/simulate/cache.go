package simulate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

// ReportCache stores finished reports by key.
type ReportCache interface {
	Get(ctx context.Context, key string) (Report, bool, error)
	Set(ctx context.Context, key string, rep Report) error
}

type RedisReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisReportCache(rdb *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{rdb: rdb, ttl: ttl}
}

func (c *RedisReportCache) key(k string) string {
	return fmt.Sprintf("report:%s", k)
}

func (c *RedisReportCache) Set(ctx context.Context, key string, rep Report) error {
	b, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(key), b, c.ttl).Err()
}

func (c *RedisReportCache) Get(ctx context.Context, key string) (Report, bool, error) {
	val, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Report{}, false, nil
	}
	if err != nil {
		return Report{}, false, err
	}

	var rep Report
	if err := json.Unmarshal(val, &rep); err != nil {
		return Report{}, false, err
	}
	return rep, true, nil
}

// LayeredCache keeps recent reports in process and falls through to
// next (may be nil) on a miss.
type LayeredCache struct {
	mem  *lru.Cache[string, Report]
	next ReportCache
}

func NewLayeredCache(size int, next ReportCache) (*LayeredCache, error) {
	mem, err := lru.New[string, Report](size)
	if err != nil {
		return nil, fmt.Errorf("lru: %w", err)
	}
	return &LayeredCache{mem: mem, next: next}, nil
}

func (c *LayeredCache) Get(ctx context.Context, key string) (Report, bool, error) {
	if rep, ok := c.mem.Get(key); ok {
		return rep, true, nil
	}
	if c.next == nil {
		return Report{}, false, nil
	}
	rep, ok, err := c.next.Get(ctx, key)
	if err != nil || !ok {
		return Report{}, false, err
	}
	c.mem.Add(key, rep)
	return rep, true, nil
}

func (c *LayeredCache) Set(ctx context.Context, key string, rep Report) error {
	c.mem.Add(key, rep)
	if c.next == nil {
		return nil
	}
	return c.next.Set(ctx, key, rep)
}
