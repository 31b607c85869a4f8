package middleware

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisLimiter_FailsOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Порт 1 на localhost заведомо не слушается
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	limiter := NewRedisLimiter(client, 1, time.Minute, "auth", logger)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("192.168.1.1"), "unavailable redis should not block requests")
	}
}

func TestRedisLimiter_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		limiter *RedisLimiter
		name    string
		key     string
	}{
		{name: "nil limiter", limiter: nil, key: "ip"},
		{name: "nil client", limiter: NewRedisLimiter(nil, 1, time.Minute, "auth", logger), key: "ip"},
		{name: "zero limit", limiter: NewRedisLimiter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), 0, time.Minute, "auth", logger), key: "ip"},
		{name: "empty key", limiter: NewRedisLimiter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), 1, time.Minute, "auth", logger), key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.limiter.Allow(tt.key))
		})
	}
}
