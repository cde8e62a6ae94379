// Пакет cache предоставляет обёртку над Redis для кэширования ответов внешних источников
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss возвращается, когда запрошенный ключ отсутствует в Redis.
// Позволяет отличить кэш-промах от настоящей ошибки Redis.
var ErrCacheMiss = errors.New("cache miss")

// RedisClient — обёртка над *redis.Client с минимальным интерфейсом Set/Get/Invalidate
type RedisClient struct {
	client *redis.Client // внутренний клиент Redis
}

// NewRedisClient создаёт новый RedisClient с заданными опциями подключения
func NewRedisClient(opts *redis.Options) *RedisClient {
	return &RedisClient{client: redis.NewClient(opts)}
}

// Set сохраняет значение value под ключом key с временем жизни expiration
func (r *RedisClient) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Get читает значение по ключу key.
// При отсутствии ключа (redis.Nil) возвращает ErrCacheMiss,
// остальные ошибки Redis возвращаются как есть.
func (r *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		// кэш-промах: ключ отсутствует
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Invalidate удаляет ключ key из Redis
func (r *RedisClient) Invalidate(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
