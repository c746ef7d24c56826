package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retailpulse-inventory/internal/application/inventory"
	"github.com/jhoicas/retailpulse-inventory/internal/infrastructure/cache"
)

func TestKey_IncluyeNamespace(t *testing.T) {
	assert.Equal(t, "retailpulse:inventory:inventory::id:1", cache.Key(inventory.NamespaceInventory, "id:1"))
	assert.Equal(t, "retailpulse:inventory:inventoryTransaction::*", cache.Key(inventory.NamespaceTransaction, "*"))
}

func TestNop(t *testing.T) {
	var c cache.Nop
	var dst map[string]any

	require.NoError(t, c.Set(context.Background(), "ns", "k", map[string]any{"a": 1}))
	hit, err := c.Get(context.Background(), "ns", "k", &dst)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.InvalidateAll(context.Background(), "ns"))
}

func TestRedisCache_ErroresDeConexionSePropagan(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewRedisCache(client, time.Minute)

	_, err := c.Get(context.Background(), "ns", "k", new(string))
	assert.Error(t, err)
	assert.Error(t, c.Set(context.Background(), "ns", "k", "v"))
	assert.Error(t, c.InvalidateAll(context.Background(), "ns"))
}
