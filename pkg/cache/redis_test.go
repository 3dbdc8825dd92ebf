package cache

import (
	"context"
	"testing"
	"time"

	"mauryavansham-service/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedis(config.RedisConfig{Addr: mr.Addr()})
	require.NotNil(t, c)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestNewRedis_DisabledWithoutAddr(t *testing.T) {
	assert.Nil(t, NewRedis(config.RedisConfig{}))
}

func TestNilClientIsAMiss(t *testing.T) {
	var c *RedisClient
	ctx := context.Background()

	var out []item
	hit, err := c.GetJSON(ctx, "k", &out)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.SetJSON(ctx, "k", out, time.Minute))
	assert.NoError(t, c.Del(ctx, "k"))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestJSONRoundTripAndExpiry(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()
	key := OwnProfilesKey(81)
	assert.Equal(t, "profiles:owner:81", key)

	require.NoError(t, c.SetJSON(ctx, key, []item{{ID: 7, Name: "Asha"}}, time.Minute))

	var out []item
	hit, err := c.GetJSON(ctx, key, &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []item{{ID: 7, Name: "Asha"}}, out)

	mr.FastForward(2 * time.Minute)
	hit, err = c.GetJSON(ctx, key, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDel(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "a", 1, 0))
	require.NoError(t, c.Del(ctx, "a"))
	assert.False(t, mr.Exists("a"))
}

func TestGetJSON_CorruptValue(t *testing.T) {
	c, mr := newTestRedis(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var out []item
	hit, err := c.GetJSON(context.Background(), "bad", &out)
	assert.Error(t, err)
	assert.False(t, hit)
}
