package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/retailpulse-inventory/internal/application/inventory"
	"github.com/jhoicas/retailpulse-inventory/pkg/config"
)

var (
	_ inventory.ViewCache        = (*RedisCache)(nil)
	_ inventory.CacheInvalidator = (*RedisCache)(nil)
)

// keyPrefix separa las claves de este servicio dentro de una instancia Redis compartida.
const keyPrefix = "retailpulse:inventory:"

// scanBatch claves por iteración de SCAN al invalidar un namespace.
const scanBatch = 500

// NewRedisClient crea el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("conectar a Redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// RedisCache caché de vistas JSON por namespace con TTL. No guarda resultados ausentes:
// esa decisión la toma el llamador.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache construye el caché. ttl <= 0 usa 10 minutos.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Key clave completa de una entrada.
func Key(namespace, key string) string {
	return keyPrefix + namespace + "::" + key
}

// Get decodifica la entrada en dst; false si no existe.
func (c *RedisCache) Get(ctx context.Context, namespace, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, Key(namespace, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s/%s: %w", namespace, key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decodificar caché %s/%s: %w", namespace, key, err)
	}
	return true, nil
}

// Set guarda value como JSON con el TTL configurado.
func (c *RedisCache) Set(ctx context.Context, namespace, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("codificar caché %s/%s: %w", namespace, key, err)
	}
	if err := c.client.Set(ctx, Key(namespace, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s/%s: %w", namespace, key, err)
	}
	return nil
}

// InvalidateAll borra todas las claves del namespace (SCAN + DEL por lotes).
func (c *RedisCache) InvalidateAll(ctx context.Context, namespace string) error {
	pattern := Key(namespace, "*")
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan %s: %w", namespace, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del %s: %w", namespace, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
