package testutil

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisContainerInfo struct {
	Addr string
	// Flush empties every database so queued tasks do not leak between tests.
	Flush   func(ctx context.Context) error
	Cleanup func()
}

func StartRedisContainer() (*RedisContainerInfo, error) {
	c, err := startContainer("redis", "7", "TEST_REDIS_TAG", nil, nil)
	if err != nil {
		return nil, err
	}

	addr := c.hostPort("6379/tcp")
	withClient := func(fn func(rdb *redis.Client) error) error {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer func() { _ = rdb.Close() }()
		return fn(rdb)
	}

	if err := c.waitReady("redis", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return withClient(func(rdb *redis.Client) error { return rdb.Ping(ctx).Err() })
	}); err != nil {
		return nil, err
	}

	return &RedisContainerInfo{
		Addr: addr,
		Flush: func(ctx context.Context) error {
			return withClient(func(rdb *redis.Client) error { return rdb.FlushAll(ctx).Err() })
		},
		Cleanup: c.purger("redis"),
	}, nil
}
