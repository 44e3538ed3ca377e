package config

// This file defines a Redis client constructor. Redis backs the HTTP
// response cache for the read-heavy listing and booking endpoints. If the
// connection fails during startup, the constructor returns nil and callers
// degrade gracefully by disabling caching.

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client from the loaded Config. An
// empty RedisAddr means Redis is not configured and nil is returned. The
// returned client may also be nil when the server cannot be reached; the
// cache middleware treats a nil client as "caching disabled".
func NewRedisClient(cfg Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	// Ping the server with a short timeout. Return nil on failure.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
