package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCache(client, "kscout:")
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})
	return mr, cache
}

func TestMemoryCacheLRU(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(2, 0)
	defer cache.Close()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), 0))

	_, ok, _ := cache.Get(ctx, "a")
	require.True(t, ok)

	require.NoError(t, cache.Set(ctx, "c", []byte("3"), 0))

	_, ok, _ = cache.Get(ctx, "b")
	assert.False(t, ok, "least recently used entry should be evicted")
	v, ok, _ := cache.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(10, 0)
	defer cache.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "short", []byte("x"), time.Minute))
	require.NoError(t, cache.Set(ctx, "forever", []byte("y"), 0))

	now = now.Add(2 * time.Minute)

	_, ok, _ := cache.Get(ctx, "short")
	assert.False(t, ok)
	_, ok, _ = cache.Get(ctx, "forever")
	assert.True(t, ok)

	require.NoError(t, cache.Set(ctx, "sweep", []byte("z"), time.Second))
	now = now.Add(time.Hour)
	cache.cleanupExpired()
	assert.Equal(t, 1, cache.Stats().Size)
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(10, 0)
	defer cache.Close()

	value := []byte("abc")
	require.NoError(t, cache.Set(ctx, "k", value, 0))
	value[0] = 'z'

	got, _, _ := cache.Get(ctx, "k")
	assert.Equal(t, "abc", string(got))
	require.NoError(t, cache.Delete(ctx, "k"))
	_, ok, _ := cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr, cache := setupTestRedis(t)

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "report", []byte(`{"a":1}`), time.Minute))
	assert.True(t, mr.Exists("kscout:report"))
	assert.Equal(t, time.Minute, mr.TTL("kscout:report"))

	got, ok, err := cache.Get(ctx, "report")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(got))

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "report")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "gone", []byte("x"), 0))
	require.NoError(t, cache.Delete(ctx, "gone"))
	assert.False(t, mr.Exists("kscout:gone"))
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	_, cache := setupTestRedis(t)

	type payload struct {
		Keyword string  `json:"keyword"`
		Score   float64 `json:"score"`
	}
	require.NoError(t, SaveJSON(ctx, cache, "p", payload{Keyword: "캠핑", Score: 12.5}, time.Minute))

	var got payload
	ok, err := LoadJSON(ctx, cache, "p", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload{Keyword: "캠핑", Score: 12.5}, got)

	ok, err = LoadJSON(ctx, cache, "absent", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "bad", []byte("{"), 0))
	ok, err = LoadJSON(ctx, cache, "bad", &got)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewBackends(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, Config{Backend: "memory", MaxEntries: 5})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)
	c.Close()

	mr := miniredis.RunT(t)
	c, err = New(ctx, Config{Backend: "redis", RedisAddr: mr.Addr(), Prefix: "t:"})
	require.NoError(t, err)
	assert.IsType(t, &RedisCache{}, c)
	c.Close()

	c, err = New(ctx, Config{Backend: "none"})
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = New(ctx, Config{Backend: "etcd"})
	assert.Error(t, err)
}
