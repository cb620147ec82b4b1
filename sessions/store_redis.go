package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps the token under a single redis key, <prefix>:<name>.
// Distinct names give independent sessions (one per browser tab, say).
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to redis and checks the connection
func NewRedisStore(ctx context.Context, opts *redis.Options, prefix, name string) (*RedisStore, error) {
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisStoreWithClient(client, prefix, name), nil
}

func NewRedisStoreWithClient(client *redis.Client, prefix, name string) *RedisStore {
	return &RedisStore{client: client, key: prefix + ":" + name}
}

// Key is the redis key holding the token
func (r *RedisStore) Key() string {
	return r.key
}

func (r *RedisStore) Get(ctx context.Context) (string, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperrors.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session token: %w", err)
	}
	if val == "" {
		return "", apperrors.ErrNoToken
	}
	return val, nil
}

func (r *RedisStore) Set(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidToken, "empty token")
	}
	if err := r.client.Set(ctx, r.key, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session token: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
