package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

// RateLimit creates a per-IP rate limiter for the public submission route.
// A nil storage falls back to fiber's in-memory store, which is fine for a
// single instance; pass a RedisStorage when running more than one replica.
func RateLimit(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	})
}

// RedisStorage adapts a go-redis client to fiber's Storage interface so the
// rate limiter state is shared across instances.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage wraps an existing Redis client.
func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

// Get retrieves the value for the given key, or nil when absent.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	value, err := s.client.Get(context.Background(), key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return value, err
}

// Set stores the value with the given expiration. Zero means no expiry.
func (s *RedisStorage) Set(key string, value []byte, exp time.Duration) error {
	return s.client.Set(context.Background(), key, value, exp).Err()
}

// Delete removes the given key.
func (s *RedisStorage) Delete(key string) error {
	return s.client.Del(context.Background(), key).Err()
}

// Reset clears all keys. Only used by fiber's storage conformance tooling.
func (s *RedisStorage) Reset() error {
	return s.client.FlushDB(context.Background()).Err()
}

// Close releases the underlying client.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
