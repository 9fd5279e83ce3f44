package utils

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coachfit/coachfit/config"
)

var redisClient *redis.Client

// InitRedis connects the optional Redis client. When no host is configured
// the client stays nil and Redis-backed features fall back to in-memory
// behavior.
func InitRedis(cfg config.AppConfig) {
	if cfg.RedisHost == "" {
		return
	}
	redisClient = redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil && Sugar != nil {
		Sugar.Warnf("redis unreachable, falling back to in-memory stores: %v", err)
	}
}

// GetRedis returns the configured Redis client, or nil.
func GetRedis() *redis.Client {
	return redisClient
}
