package config

// Redis backs the optional message listing cache.  When no address is
// configured, or the server cannot be reached at startup, NewRedisClient
// returns nil and callers degrade to reading straight from the database.

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection parameters read from REDIS_ADDR,
// REDIS_PASSWORD and REDIS_DB.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoadRedisConfig reads the Redis connection settings.  REDIS_HOST and
// REDIS_PORT are accepted as an alternative to REDIS_ADDR.
func LoadRedisConfig() RedisConfig {
	addr := getenv("REDIS_ADDR", "")
	if host, port := getenv("REDIS_HOST", ""), getenv("REDIS_PORT", ""); host != "" && port != "" {
		addr = host + ":" + port
	}
	return RedisConfig{
		Addr:     addr,
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
	}
}

// NewRedisClient instantiates a Redis client and pings it with a short
// timeout.  The returned client is nil when Addr is empty or the ping fails.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
