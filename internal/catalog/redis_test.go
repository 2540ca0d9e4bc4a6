package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), mr
}

func TestRedisCache_GetHit(t *testing.T) {
	cache, mr := setupTestRedis(t)

	product := hoodie()
	data, err := json.Marshal(product)
	require.NoError(t, err)
	mr.Set(cacheKey("p1"), string(data))

	got, err := cache.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Blue Hoodie", got.Name)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Price))
	assert.Equal(t, 5, got.Stock)
}

func TestRedisCache_GetMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	_, err := cache.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_GetCorrupted(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Set(cacheKey("p1"), "{not json")

	_, err := cache.Get(context.Background(), "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_SetAppliesTTLWithJitter(t *testing.T) {
	cache, mr := setupTestRedis(t)
	product := hoodie()

	require.NoError(t, cache.Set(context.Background(), &product))

	assert.True(t, mr.Exists(cacheKey("p1")))
	ttl := mr.TTL(cacheKey("p1"))
	assert.GreaterOrEqual(t, ttl, 5*time.Minute)
	assert.Less(t, ttl, 6*time.Minute)
}

func TestRedisCache_Delete(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Set(cacheKey("p1"), "{}")

	require.NoError(t, cache.Delete(context.Background(), "p1"))
	assert.False(t, mr.Exists(cacheKey("p1")))

	// deleting a missing key is not an error
	assert.NoError(t, cache.Delete(context.Background(), "p1"))
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "product:p1", cacheKey("p1"))
}
