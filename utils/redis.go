package utils

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the Redis client used for short-TTL JSON caching of list
// responses. Constructed once in main and passed to the handlers that
// need it.
type Cache struct {
	client *redis.Client
}

func NewCache() *Cache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		}),
	}
}

// Get unmarshals the cached value into dest, reporting whether the key
// was present.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(data), dest)
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// QueryKey builds a stable cache key from a prefix and the request's
// query parameters.
func (c *Cache) QueryKey(prefix string, queryParams map[string]string) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(queryParams[k])
	}

	hash := md5.Sum([]byte(builder.String()))
	return prefix + ":" + hex.EncodeToString(hash[:])
}
