package kv

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Options carries the connection settings for every backend; only the
// fields for the selected backend are consulted.
type Options struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	PostgresDSN   string
	MongoURI      string
	MongoDB       string
}

// Open builds the configured Store backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisPassword)
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.PostgresDSN)
	case BackendMongo:
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDB)
	default:
		return nil, fmt.Errorf("kv: unknown backend %q", opts.Backend)
	}
}
