package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tasktracker-server/internal/model"
)

func newTestCache(t *testing.T) (*UserCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c := NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestUserCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	user := model.User{
		ID:           uuid.New(),
		Name:         "Ann",
		Email:        "ann@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         model.RoleUser,
		CreatedAt:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.Set(ctx, user))

	raw, err := mr.Get(key(user.ID))
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret")
	assert.Equal(t, time.Minute, mr.TTL(key(user.ID)))

	got, err := c.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Name, got.Name)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.Role, got.Role)
	assert.True(t, user.CreatedAt.Equal(got.CreatedAt))
	assert.Empty(t, got.PasswordHash)
}

func TestUserCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	_, err := c.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	user := model.User{ID: uuid.New(), Name: "Ann"}
	require.NoError(t, c.Set(ctx, user))

	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, user.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	id := uuid.New()
	require.NoError(t, mr.Set(key(id), "{not json"))

	_, err := c.Get(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}

func TestUserCache_Purge(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	for i := 0; i < 250; i++ {
		require.NoError(t, c.Set(ctx, model.User{ID: uuid.New()}))
	}
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, c.Purge(ctx))

	assert.Equal(t, []string{"unrelated"}, mr.Keys())
}

func TestUserCache_Purge_ManyBatches(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Purge(ctx))

	for i := 0; i < 1000; i++ {
		require.NoError(t, c.Set(ctx, model.User{ID: uuid.New()}))
		if i%100 == 0 {
			require.NoError(t, mr.Set(fmt.Sprintf("other:%d", i), "keep"))
		}
	}

	require.NoError(t, c.Purge(ctx))

	keys := mr.Keys()
	assert.Len(t, keys, 10)
	for _, k := range keys {
		assert.NotContains(t, k, keyPrefix)
	}
}

func TestUserCache_Ping(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestNewWithClient_DefaultTTL(t *testing.T) {
	c := NewWithClient(goredis.NewClient(&goredis.Options{Addr: "localhost:0"}), 0)
	t.Cleanup(func() { _ = c.Close() })
	assert.Equal(t, defaultTTL, c.ttl)
}
