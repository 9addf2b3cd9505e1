// Package redis wraps the go-redis client behind an interface the
// repositories depend on.
package redis

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/talent-api/internal/errors"
)

// Options tunes the connection pool.
type Options struct {
	PoolSize        int
	MinIdleConns    int
	ConnMaxIdleTime time.Duration
	MaxRetries      int
}

// NewClient connects to a single Redis instance. endpoint is either a
// redis:// URL or a bare host:port.
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.InvalidArgument("redis endpoint is required")
	}
	if opts == nil {
		opts = &Options{}
	}

	redisOpts := &redis.Options{Addr: endpoint}
	if parsed, err := redis.ParseURL(endpoint); err == nil {
		redisOpts = parsed
	}
	redisOpts.PoolSize = opts.PoolSize
	redisOpts.MinIdleConns = opts.MinIdleConns
	redisOpts.ConnMaxIdleTime = opts.ConnMaxIdleTime
	redisOpts.MaxRetries = opts.MaxRetries

	return redis.NewClient(redisOpts), nil
}
