package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return mr, NewClientFromRedis(rdb, zap.NewNop())
}

func TestNewClient_InvalidURL(t *testing.T) {
	client, err := NewClient("not-a-redis-url", zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestClient_SetAndGet(t *testing.T) {
	_, client := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "usersByLogin:jdoe", "payload", time.Hour))

	val, err := client.Get(ctx, "usersByLogin:jdoe")
	require.NoError(t, err)
	assert.Equal(t, "payload", val)
}

func TestClient_GetMissingKey(t *testing.T) {
	_, client := setupTestClient(t)

	val, err := client.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestClient_SetExpiration(t *testing.T) {
	mr, client := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "ephemeral", "x", time.Minute))

	mr.FastForward(2 * time.Minute)

	val, err := client.Get(ctx, "ephemeral")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestClient_Delete(t *testing.T) {
	_, client := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "a", "1", 0))
	require.NoError(t, client.Set(ctx, "b", "2", 0))
	require.NoError(t, client.Delete(ctx, "a", "b"))
	require.NoError(t, client.Delete(ctx)) // no keys is a no-op

	n, err := client.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestClient_Health(t *testing.T) {
	mr, client := setupTestClient(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}
