package middleware

import (
	"context"
	"time"
)

// KV is the part of the redis client the middleware relies on.
// *redis.Client from internal/pkg/redis satisfies it.
type KV interface {
	// Get returns ("", nil) for a missing key.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	DelPattern(ctx context.Context, pattern string) (int, error)
}
