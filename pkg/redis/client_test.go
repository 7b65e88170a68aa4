package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	allowed, count, err := client.FixedWindowAllow(ctx, "otp:9876543210", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(1), count)
	require.Len(t, mock.expireCalls, 1)
	assert.Equal(t, "mp:rate_limit:otp:9876543210", mock.expireCalls[0].key)

	allowed, count, err = client.FixedWindowAllow(ctx, "otp:9876543210", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(2), count)
	assert.Len(t, mock.expireCalls, 1, "expire is only set on the first hit")

	allowed, _, err = client.FixedWindowAllow(ctx, "otp:9876543210", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestSwapReturnsPrevious(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	prev, err := client.Swap(ctx, "k", "first", time.Hour)
	require.NoError(t, err)
	assert.Empty(t, prev)

	prev, err = client.Swap(ctx, "k", "second", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "first", prev)

	got, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestSetNXExistsDel(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	ok, err := client.SetNX(ctx, "lock", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = client.SetNX(ctx, "lock", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := client.Exists(ctx, "lock")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, client.Del(ctx, "lock"))
	_, err = client.Get(ctx, "lock")
	assert.ErrorIs(t, err, Nil)
	require.NoError(t, client.Del(ctx))
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "mp:idempotency:checkout:abc", client.IdempotencyKey("checkout", "abc"))
	assert.Equal(t, "mp:rate_limit:login", client.RateLimitKey("login"))
	assert.Equal(t, "mp:session:jti-1", client.SessionKey("jti-1"))
	assert.Equal(t, "mp:identity:vendor:v-1", client.IdentitySessionKey("vendor", "v-1"))
	assert.Equal(t, "mp:lock:cron", client.LockKey(" cron "))
	assert.Equal(t, "mp:identity:v-1", client.IdentitySessionKey("", "v-1"))
}

func TestUninitializedClient(t *testing.T) {
	var client *Client
	assert.Error(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:secret@cache:6380/2", PoolSize: 7})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 7, opts.PoolSize)
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) GetSet(_ context.Context, key string, value any) *redis.StringCmd {
	prev, ok := m.data[key]
	m.data[key] = fmt.Sprint(value)
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(prev, nil)
}

func (m *mockCmdable) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
