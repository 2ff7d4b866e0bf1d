// FilePath: internal/repository/redis/redis.kv.go
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/beemind/hub/internal/config"
	"github.com/beemind/hub/internal/repository"
	goredis "github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// KVStore is the go-redis backed local state store
type KVStore struct {
	client *goredis.Client
}

// NewClient opens a client for the configured redis and pings it.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	nuts.L.Infof("[Redis] Connected to %s/%d", cfg.Addr(), cfg.DB)
	return client, nil
}

func NewKVStore(client *goredis.Client) *KVStore {
	return &KVStore{client: client}
}

func (r *KVStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", repository.ErrNotFound
		}
		return "", err
	}
	return val, nil
}

func (r *KVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *KVStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *KVStore) Close() error {
	return r.client.Close()
}
