package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Счетчик в окне фиксированной длины: первый INCR ставит TTL окна
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// redisTimeout ограничивает время ожидания Redis на один запрос
const redisTimeout = 250 * time.Millisecond

// RedisLimiter распределенный rate limiter поверх Redis.
// При недоступности Redis пропускает запросы (fail open).
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
	logger *slog.Logger
	prefix string
	window time.Duration
	limit  int
}

// NewRedisLimiter создает RedisLimiter; prefix отделяет ключи разных лимитов
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, prefix string, logger *slog.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
		logger: logger,
		script: redis.NewScript(rateLimitScript),
	}
}

// Allow проверяет, разрешен ли запрос для данного ключа
func (l *RedisLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if l.limit <= 0 || l.window <= 0 || key == "" {
		return true
	}

	redisKey := key
	if l.prefix != "" {
		redisKey = l.prefix + ":" + key
	}

	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{redisKey}, ttl, l.limit).Int64()
	if err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", slog.Any("error", err))
		return true
	}

	return allowed == 1
}
