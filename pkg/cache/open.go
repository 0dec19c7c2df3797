package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Open creates the named backend. dir is used by the file backend and
// redisURL by the redis backend.
func Open(ctx context.Context, backend, dir, redisURL string) (Cache, error) {
	switch backend {
	case BackendFile, "":
		return NewFileCache(dir)
	case BackendRedis:
		return NewRedisCache(ctx, RedisConfig{URL: redisURL})
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
