package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type entry struct {
	Name string `json:"name"`
}

func TestNilCache(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var out entry
	found, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.Set(ctx, "k", entry{Name: "x"}))
	assert.NoError(t, c.InvalidatePrefix(ctx, "k"))
}

func TestNewClient_EmptyAddr(t *testing.T) {
	client, err := NewClient(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestCache_Redis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := NewClient(ctx, endpoint, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := New(client, "", time.Minute)

	require.NoError(t, c.Set(ctx, "companions:list:a", entry{Name: "Ada"}))
	require.NoError(t, c.Set(ctx, "companions:list:b", entry{Name: "Bo"}))
	require.NoError(t, c.Set(ctx, "categories:all", entry{Name: "Games"}))

	var got entry
	found, err := c.Get(ctx, "companions:list:a", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ada", got.Name)

	ttl, err := client.TTL(ctx, "companion:companions:list:a").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.InvalidatePrefix(ctx, "companions:"))

	found, err = c.Get(ctx, "companions:list:b", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = c.Get(ctx, "categories:all", &got)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = client.Get(ctx, "companion:missing").Result()
	assert.ErrorIs(t, err, redis.Nil)
}
