package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beemind/hub/internal/repository"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *KVStore) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewKVStore(client)
}

func TestKVStore_RoundTrip(t *testing.T) {
	mr, kv := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "beemind:sensor-cache:01", `{"temp":35}`, 0))
	got, err := kv.Get(ctx, "beemind:sensor-cache:01")
	require.NoError(t, err)
	assert.Equal(t, `{"temp":35}`, got)
	assert.Equal(t, time.Duration(0), mr.TTL("beemind:sensor-cache:01"))

	require.NoError(t, kv.Delete(ctx, "beemind:sensor-cache:01"))
	_, err = kv.Get(ctx, "beemind:sensor-cache:01")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestKVStore_TTLExpires(t *testing.T) {
	mr, kv := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "beemind:weather:tashkent", "{}", 15*time.Minute))
	assert.Equal(t, 15*time.Minute, mr.TTL("beemind:weather:tashkent"))

	mr.FastForward(16 * time.Minute)
	_, err := kv.Get(ctx, "beemind:weather:tashkent")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestKVStore_ServerDown(t *testing.T) {
	mr, kv := setupTestRedis(t)
	mr.Close()

	_, err := kv.Get(context.Background(), "any")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}
