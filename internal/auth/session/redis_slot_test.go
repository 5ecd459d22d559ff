package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrail/tasktrail-backend/internal/auth/domain"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, client.Ping(context.Background()).Err())

	return client
}

func TestRedisSlot_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	slot := NewRedisSlot(client, time.Hour)
	ctx := context.Background()

	loaded, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	id := &domain.Identity{ID: "id-1", Name: "Ann", Email: "ann@x.com", Role: domain.RoleUser}
	require.NoError(t, slot.Save(ctx, id))

	loaded, err = slot.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, *id, *loaded)
}

func TestRedisSlot_Clear(t *testing.T) {
	client := setupTestRedis(t)
	slot := NewRedisSlot(client, 0)
	ctx := context.Background()

	id := &domain.Identity{ID: "id-1", Name: "Ann", Email: "ann@x.com", Role: domain.RoleUser}
	require.NoError(t, slot.Save(ctx, id))
	require.NoError(t, slot.Clear(ctx))

	loaded, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// clearing an already empty slot is fine
	require.NoError(t, slot.Clear(ctx))
}

func TestRedisSlot_MalformedValue(t *testing.T) {
	client := setupTestRedis(t)
	slot := NewRedisSlot(client, 0)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, currentUserKey, "{broken", 0).Err())

	_, err := slot.Load(ctx)
	assert.Error(t, err)
}

func TestManagerWithRedisSlot(t *testing.T) {
	client := setupTestRedis(t)
	slot := NewRedisSlot(client, time.Hour)
	ctx := context.Background()

	e := newEnv(t)
	m := NewManager(ctx, e.store, slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	// a second manager over the same redis restores the identity
	m2 := NewManager(ctx, e.store, slot)
	require.True(t, m2.Authenticated())
	assert.Equal(t, "ann@x.com", m2.Current().Email)
}
