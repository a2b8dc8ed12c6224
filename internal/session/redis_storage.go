package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage stores client records as plain Redis strings.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage creates a Redis-backed storage. ttl <= 0 keeps records until deleted.
func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStorage{client: client, ttl: ttl}
}

// RedisKey returns the Redis key for a client record.
func RedisKey(clientID, key string) string {
	return fmt.Sprintf("eureka:client:%s:%s", clientID, key)
}

func (s *RedisStorage) Get(ctx context.Context, clientID, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, RedisKey(clientID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (s *RedisStorage) Set(ctx context.Context, clientID, key string, value []byte) error {
	if err := s.client.Set(ctx, RedisKey(clientID, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, clientID, key string) error {
	if err := s.client.Del(ctx, RedisKey(clientID, key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
