package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/angelmondragon/vendorhub-backend/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	require.NoError(t, client.Set(ctx, "vh:test", "value", time.Minute))
	got, err := client.Get(ctx, "vh:test")
	require.NoError(t, err)
	require.Equal(t, "value", got)

	mr.FastForward(2 * time.Minute)
	_, err = client.Get(ctx, "vh:test")
	require.ErrorIs(t, err, redis.Nil)

	require.NoError(t, client.Set(ctx, "vh:other", "value", 0))
	require.NoError(t, client.Del(ctx, "vh:other"))
	_, err = client.Get(ctx, "vh:other")
	require.ErrorIs(t, err, redis.Nil)
}

func TestPingAndUninitialized(t *testing.T) {
	client, _ := newTestClient(t)
	require.NoError(t, client.Ping(context.Background()))

	empty := &Client{}
	require.Error(t, empty.Ping(context.Background()))
	require.NoError(t, empty.Close())
}

func TestAccessSessionKey(t *testing.T) {
	client := &Client{}
	require.Equal(t, "vh:session:access:abc", client.AccessSessionKey(" abc "))
}

func TestSetNXAndLockKey(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	key := client.LockKey("cron-worker", "")
	require.Equal(t, "vh:lock:cron-worker:local", key)

	ok, err := client.SetNX(ctx, key, "owner-a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.SetNX(ctx, key, "owner-b", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = client.SetNX(ctx, key, "owner-b", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 7})
	require.NoError(t, err)
	require.Equal(t, 2, opts.DB)
	require.Equal(t, 7, opts.PoolSize)

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 3})
	require.NoError(t, err)
	require.Equal(t, "cache:6379", opts.Addr)
	require.Equal(t, 3, opts.DB)
}
