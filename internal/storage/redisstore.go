package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one hash per exoname. Useful when the notebook home
// directory is ephemeral but a local redis survives kernel restarts.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(exoname string) string { return "exograde:" + exoname }

func (s *RedisStore) Read(ctx context.Context, exoname, attr string, out any) error {
	raw, err := s.client.HGet(ctx, redisKey(exoname), attr).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s.%s: %w", exoname, attr, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode %s.%s: %w", exoname, attr, err)
	}
	return nil
}

func (s *RedisStore) Save(ctx context.Context, exoname, attr string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s.%s: %w", exoname, attr, err)
	}
	if err := s.client.HSet(ctx, redisKey(exoname), attr, string(raw)).Err(); err != nil {
		return fmt.Errorf("save %s.%s: %w", exoname, attr, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, exoname string) error {
	if err := s.client.Del(ctx, redisKey(exoname)).Err(); err != nil {
		return fmt.Errorf("clear %s: %w", exoname, err)
	}
	return nil
}
