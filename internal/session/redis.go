package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the token under session:<name> so several driver
// processes can share one login.
type RedisStore struct {
	client *redis.Client
	name   string
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, name string) *RedisStore {
	return &RedisStore{client: client, name: name, now: time.Now}
}

func (r *RedisStore) Load(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, storeKey(r.name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return token, nil
}

func (r *RedisStore) Save(ctx context.Context, token string, expiresAt time.Time) error {
	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = expiresAt.Sub(r.now())
		if ttl <= 0 {
			return r.Delete(ctx)
		}
	}
	if err := r.client.Set(ctx, storeKey(r.name), token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, storeKey(r.name)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func storeKey(name string) string {
	return fmt.Sprintf("session:%s", name)
}
