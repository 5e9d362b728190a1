// internal/common/cache/redis_test.go
package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sbdc-assessment/internal/common/config"
	"sbdc-assessment/internal/common/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *RedisClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRenderCache_RoundTrip(t *testing.T) {
	mr, client := setupMiniredis(t)
	ctx := context.Background()
	c := NewRenderCache(client.Client, "pdf:", time.Minute)

	_, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	doc := []byte("%PDF-1.3 body")
	require.NoError(t, c.Set(ctx, "abc", doc))

	got, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, doc, got)

	assert.True(t, mr.Exists("pdf:abc"))
	assert.Equal(t, time.Minute, mr.TTL("pdf:abc"))

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisClient_Ping(t *testing.T) {
	mr, client := setupMiniredis(t)
	require.NoError(t, client.Ping(context.Background()))

	mr.Close()
	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

func TestRenderCache_BackendErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRenderCache(db, "pdf:", time.Hour)
	ctx := context.Background()

	mock.ExpectGet("pdf:k").SetErr(fmt.Errorf("connection reset"))
	_, ok, err := c.Get(ctx, "k")
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.HasCode(err, errors.ErrCodeCacheFailed))

	mock.ExpectSet("pdf:k", []byte("doc"), time.Hour).SetErr(fmt.Errorf("OOM"))
	err = c.Set(ctx, "k", []byte("doc"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeCacheFailed))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenderCache_MissIsNotAnError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRenderCache(db, "pdf:", time.Hour)

	mock.ExpectGet("pdf:gone").RedisNil()
	val, ok, err := c.Get(context.Background(), "gone")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRenderCacheFromConfig(t *testing.T) {
	client := &RedisClient{Client: redis.NewClient(&redis.Options{Addr: "localhost:0"})}
	defer client.Close()

	// untyped nil so an interface-typed field stays nil
	assert.True(t, NewRenderCacheFromConfig(config.CacheConfig{Enabled: false}, client) == nil)
	assert.True(t, NewRenderCacheFromConfig(config.CacheConfig{Enabled: true}, nil) == nil)

	dc := NewRenderCacheFromConfig(config.CacheConfig{Enabled: true, Prefix: "x:", TTL: 1500}, client)
	require.NotNil(t, dc)
	c, ok := dc.(*RenderCache)
	require.True(t, ok)
	assert.Equal(t, "x:key", c.Key("key"))
	assert.Equal(t, 1500*time.Millisecond, c.ttl)
}
