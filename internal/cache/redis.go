package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces cache keys so several tools can share one
// Redis database.
const redisKeyPrefix = "psmap:dataset:"

// Redis is the shared Store for multi-instance deployments. Entries are
// stored as JSON values with Redis-native expiry.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis server at addr and verifies the
// connection with a ping.
func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &Redis{client: client}, nil
}

// Get returns the entry for a category, or (nil, nil) on a miss.
func (r *Redis) Get(ctx context.Context, category string) (*Entry, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+category).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}

// Set publishes an entry under the category key. A non-positive ttl
// stores the entry without expiry.
func (r *Redis) Set(ctx context.Context, entry *Entry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if ttl < 0 {
		ttl = 0 // redis treats 0 as no expiry
	}
	if err := r.client.Set(ctx, redisKeyPrefix+entry.Category, data, ttl).Err(); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Delete removes a category's entry.
func (r *Redis) Delete(ctx context.Context, category string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+category).Err(); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// Close closes the client connection.
func (r *Redis) Close() error { return r.client.Close() }
