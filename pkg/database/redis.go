package database

import (
	"context"
	"fmt"
	"sdo_backend/internal/config"
	"sdo_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const redisPingTimeout = 3 * time.Second

// InitRedis connects the counts cache. It returns a nil client when redis is
// disabled; the cache treats a nil client as "no cache".
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		logger.Log.Info("Redis disabled, status counts are not cached")
		return nil, nil
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 2,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}

	logger.Log.Info("Redis connection established", zap.String("addr", addr), zap.Int("db", cfg.DB))
	return rdb, nil
}
