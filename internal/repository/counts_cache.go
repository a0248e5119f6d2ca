package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sdo_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
)

// CountsCache keeps per-user status counts in a Redis hash keyed by scope.
// Hashes are stamped with a per-user generation: Invalidate bumps it, so a
// value computed before a write lands under a generation nobody reads again.
// A nil client disables caching.
type CountsCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewCountsCache(rdb *redis.Client, ttl time.Duration) *CountsCache {
	return &CountsCache{Redis: rdb, TTL: ttl}
}

func generationKey(userID uint) string {
	return fmt.Sprintf("sdo:counts:user:%d:gen", userID)
}

func countsKey(userID uint, gen int64) string {
	return fmt.Sprintf("sdo:counts:user:%d:%d", userID, gen)
}

// CountsScope names the cache field for a task case scope; "all" when nil.
func CountsScope(taskCaseID *uint) string {
	if taskCaseID == nil {
		return "all"
	}
	return fmt.Sprintf("tc:%d", *taskCaseID)
}

func (c *CountsCache) enabled() bool {
	return c != nil && c.Redis != nil
}

// Generation returns the user's current cache generation. Read it before
// querying the database and pass it to Get and Set. ok is false when the
// cache is disabled or unreachable.
func (c *CountsCache) Generation(ctx context.Context, userID uint) (gen int64, ok bool) {
	if !c.enabled() {
		return 0, false
	}
	gen, err := c.Redis.Get(ctx, generationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	return gen, true
}

func (c *CountsCache) Get(ctx context.Context, userID uint, gen int64, scope string) (model.StatusCounts, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.Redis.HGet(ctx, countsKey(userID, gen), scope).Result()
	if err != nil {
		return nil, false
	}
	counts := model.NewStatusCounts()
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		return nil, false
	}
	return counts, true
}

func (c *CountsCache) Set(ctx context.Context, userID uint, gen int64, scope string, counts model.StatusCounts) error {
	if !c.enabled() {
		return nil
	}
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	key := countsKey(userID, gen)
	pipe := c.Redis.TxPipeline()
	pipe.HSet(ctx, key, scope, data)
	if c.TTL > 0 {
		pipe.Expire(ctx, key, c.TTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Invalidate moves the given users to a new generation. Hashes of older
// generations are left to expire.
func (c *CountsCache) Invalidate(ctx context.Context, userIDs ...uint) error {
	if !c.enabled() || len(userIDs) == 0 {
		return nil
	}
	pipe := c.Redis.TxPipeline()
	for _, id := range userIDs {
		pipe.Incr(ctx, generationKey(id))
	}
	_, err := pipe.Exec(ctx)
	return err
}
