package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/jobboard/internal/api"
)

// DefaultCacheKey ключ снимка статистики в Redis
const DefaultCacheKey = "jobboard:stats"

// Cache хранилище последнего снимка статистики
type Cache interface {
	// Get возвращает снимок; ok == false, если снимка нет или он истек
	Get(ctx context.Context) (snapshot *api.StatsResponse, ok bool, err error)
	// Set сохраняет снимок
	Set(ctx context.Context, snapshot *api.StatsResponse) error
}

// RedisCache хранит снимок статистики в Redis в виде JSON с TTL
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisCache создает кэш поверх готового клиента
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		key:    DefaultCacheKey,
		ttl:    ttl,
	}
}

// Get читает снимок из Redis
func (c *RedisCache) Get(ctx context.Context) (*api.StatsResponse, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read stats snapshot: %w", err)
	}

	var snapshot api.StatsResponse
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal stats snapshot: %w", err)
	}

	return &snapshot, true, nil
}

// Set записывает снимок в Redis
func (c *RedisCache) Set(ctx context.Context, snapshot *api.StatsResponse) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal stats snapshot: %w", err)
	}

	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write stats snapshot: %w", err)
	}

	return nil
}
